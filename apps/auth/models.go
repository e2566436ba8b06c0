package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/evo/v2/lib/generic"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hlandau/passlib"
	"github.com/solacehr/solace-backend/apps/models"
)

// JWT configuration
var JWTSecret []byte

// InitializeJWTSecret should be called during app initialization (Register or WhenReady)
func InitializeJWTSecret() {
	secret := settings.Get("JWT.SECRET").String()
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		log.Warning("JWT_SECRET not set, using development key. Change this in production!")
		secret = "your-secret-key-change-this-in-production"
	}
	JWTSecret = []byte(secret)
	log.Debug("JWT secret initialized successfully")
}

// Token type claim values. Refresh tokens cannot authenticate API calls and
// access tokens cannot be exchanged for new tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT claims structure
type Claims struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

// User is the authenticated view of an employee record. It adapts
// models.Employee to evo's UserInterface.
type User struct {
	models.Employee
}

func (u *User) GetFirstName() string {
	parts := strings.SplitN(u.Employee.Name, " ", 2)
	return parts[0]
}

func (u *User) GetLastName() string {
	parts := strings.SplitN(u.Employee.Name, " ", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

func (u *User) GetFullName() string {
	return u.Employee.Name
}

func (u *User) GetEmail() string {
	return u.Employee.Email
}

func (u *User) UUID() string {
	return u.EmployeeID
}

func (u *User) ID() uint64 {
	// Employee ids are EMP followed by digits
	n, _ := strconv.ParseUint(strings.TrimPrefix(u.EmployeeID, "EMP"), 10, 64)
	return n
}

func (u *User) Interface() interface{} {
	return u
}

func (u *User) Anonymous() bool {
	return u.EmployeeID == ""
}

func (u *User) HasPermission(permission string) bool {
	return u.Role == models.RoleAdmin
}

func (u *User) Attributes() evo.Attributes {
	var m evo.Attributes
	generic.Parse(u).Cast(&m)
	return m
}

// FromRequest extracts the user from the JWT token in the request
func (u *User) FromRequest(request *evo.Request) evo.UserInterface {
	authToken, ok := GetAuthToken(request)
	if !ok || authToken == "" {
		return u
	}

	if !strings.HasPrefix(authToken, "Bearer ") {
		return u
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authToken, "Bearer "))
	if idx := strings.Index(tokenString, ","); idx != -1 {
		tokenString = tokenString[:idx]
	}
	if idx := strings.Index(tokenString, "\""); idx != -1 {
		tokenString = tokenString[:idx]
	}

	if len(JWTSecret) == 0 {
		log.Error("JWT secret is not initialized!")
		return u
	}

	jwtToken, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JWTSecret, nil
	})

	if err != nil {
		log.Debug("JWT parsing error:", err)
		return u
	}

	if !jwtToken.Valid {
		log.Debug("JWT token is not valid")
		return u
	}

	claims, ok := jwtToken.Claims.(*Claims)
	if !ok {
		log.Debug("JWT claims parsing failed")
		return u
	}

	if claims.TokenType != TokenTypeAccess {
		log.Debug("rejected non-access token for:", claims.EmployeeID)
		return u
	}

	employee, err := models.GetEmployeeByID(claims.EmployeeID)
	if err != nil {
		log.Debug("Employee not found for claims:", claims.EmployeeID)
		return u
	}

	return &User{Employee: *employee}
}

// SetPassword hashes and stores the password
func (u *User) SetPassword(password string) error {
	hash, err := passlib.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = &hash
	return nil
}

// VerifyPassword checks a candidate password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == nil {
		return false
	}
	_, err := passlib.Verify(password, *u.PasswordHash)
	return err == nil
}

// GenerateJWT issues a signed access token carrying employee id and role
func (u *User) GenerateJWT() (string, error) {
	expiry, err := settings.Get("JWT.EXPIRY", "24h").Duration()
	if err != nil || expiry <= 0 {
		expiry = 24 * time.Hour
	}

	claims := Claims{
		EmployeeID: u.EmployeeID,
		Email:      u.Employee.Email,
		Name:       u.Employee.Name,
		Role:       u.Role,
		TokenType:  TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// GenerateRefreshToken issues a longer-lived token for session renewal
func (u *User) GenerateRefreshToken() (string, error) {
	claims := Claims{
		EmployeeID: u.EmployeeID,
		TokenType:  TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// ParseRefreshClaims validates a refresh token and returns its claims. An
// access token, however valid, is rejected here.
func ParseRefreshClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("refresh token is not valid")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("refresh token claims are malformed")
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return claims, nil
}

// RecordPing stamps the last time this account was seen.
func (u *User) RecordPing() {
	now := time.Now().UTC()
	db.Model(&models.Employee{}).Where("employee_id = ?", u.EmployeeID).Update("last_ping", now)
}

// GetAuthToken retrieves the authentication token from the request.
// It checks the X-Authorization header, then Authorization, then the cookie.
func GetAuthToken(request *evo.Request) (string, bool) {
	var token = request.Header("X-Authorization")
	if token == "" {
		token = request.Header("Authorization")
	}
	if token == "" {
		token = request.Cookie("Authorization")
	}
	return token, true
}
