package auth

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/mail"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/apps/redis"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	User         *models.Employee `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c Controller) LoginHandler(request *evo.Request) any {
	var loginReq LoginRequest
	if err := request.BodyParser(&loginReq); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	employee, err := models.GetEmployeeByEmail(loginReq.Email)
	if err != nil {
		return response.Error(response.NewError(response.ErrorCodeUnauthorized, "Invalid email or password", 401))
	}
	user := &User{Employee: *employee}

	if !user.VerifyPassword(loginReq.Password) {
		return response.Error(response.NewError(response.ErrorCodeUnauthorized, "Invalid email or password", 401))
	}

	if user.IsBlocked {
		return response.Error(response.NewError(response.ErrorCodeForbidden, "Your account has been blocked. Please contact an administrator.", 403))
	}

	accessToken, err := user.GenerateJWT()
	if err != nil {
		return response.Error(response.ErrInternalError)
	}

	refreshToken, err := user.GenerateRefreshToken()
	if err != nil {
		return response.Error(response.ErrInternalError)
	}

	user.RecordPing()

	return response.OK(LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    86400,
		User:         &user.Employee,
	})
}

func (c Controller) RefreshHandler(request *evo.Request) any {
	var refreshReq RefreshRequest
	if err := request.BodyParser(&refreshReq); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	claims, err := ParseRefreshClaims(refreshReq.RefreshToken)
	if err != nil {
		return response.Error(response.ErrInvalidToken)
	}

	employee, err := models.GetEmployeeByID(claims.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	user := &User{Employee: *employee}

	if user.IsBlocked {
		return response.Error(response.ErrForbidden)
	}

	accessToken, err := user.GenerateJWT()
	if err != nil {
		return response.Error(response.ErrInternalError)
	}

	newRefreshToken, err := user.GenerateRefreshToken()
	if err != nil {
		return response.Error(response.ErrInternalError)
	}

	return response.OK(LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    86400,
		User:         &user.Employee,
	})
}

// ForgotPasswordHandler issues a single-use reset token. The response does
// not reveal whether the address belongs to an account.
func (c Controller) ForgotPasswordHandler(request *evo.Request) any {
	var req ForgotPasswordRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	employee, err := models.GetEmployeeByEmail(req.Email)
	if err == nil && !employee.IsBlocked {
		token, err := redis.IssueResetToken(request.Context.UserContext(), employee.EmployeeID)
		if err != nil {
			log.Error("[auth] failed to issue reset token for %s: %v", employee.EmployeeID, err)
		} else {
			mail.SendAsync(employee.Email, "Password reset requested", mail.TemplateData{
				RecipientName: employee.Name,
				Heading:       "Password Reset",
				Message:       "A password reset was requested for your account. Use the token below to set a new password. It expires in 30 minutes.",
				Detail:        token,
				ActionHint:    "If you did not request this, you can ignore this email.",
			})
		}
	}

	return response.Message("If the address belongs to an account, a reset email has been sent.")
}

// ResetPasswordHandler consumes a reset token and sets the new password.
func (c Controller) ResetPasswordHandler(request *evo.Request) any {
	var req ResetPasswordRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return response.Error(response.Validation("Password must be at least 8 characters"))
	}

	employeeID, err := redis.ConsumeResetToken(request.Context.UserContext(), req.Token)
	if err != nil {
		return response.Error(response.ErrInvalidToken)
	}

	employee, err := models.GetEmployeeByID(employeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}

	user := &User{Employee: *employee}
	if err := user.SetPassword(req.Password); err != nil {
		return response.Error(response.ErrInternalError)
	}

	if err := db.Model(&models.Employee{}).
		Where("employee_id = ?", employeeID).
		Update("password_hash", user.PasswordHash).Error; err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	return response.Message("Password updated successfully.")
}

func (c Controller) GetProfile(request *evo.Request) any {
	user := CurrentUser(request)
	if user == nil {
		return response.Error(response.ErrUnauthorized)
	}

	user.RecordPing()
	return response.OK(user.Employee)
}
