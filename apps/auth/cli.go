package auth

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/getevo/evo/v2/lib/args"
	"github.com/getevo/evo/v2/lib/db"
	"github.com/solacehr/solace-backend/apps/models"
)

var employeeIDPattern = regexp.MustCompile(`^EMP\d{4}$`)

// ValidEmployeeID reports whether id is EMP followed by exactly 4 digits.
func ValidEmployeeID(id string) bool {
	return employeeIDPattern.MatchString(id)
}

// CreateAdminUser creates an admin account via CLI
func CreateAdminUser() {
	employeeID := args.Get("-id")
	email := args.Get("-email")
	password := args.Get("-password")
	name := args.Get("-name")

	if employeeID == "" || email == "" || password == "" || name == "" {
		fmt.Println("Usage: ./solace --create-admin -id EMP0001 -email admin@example.com -password secret123 -name \"Admin User\"")
		os.Exit(1)
	}

	if !employeeIDPattern.MatchString(employeeID) {
		log.Fatalf("Employee ID must be EMP followed by 4 digits, got %q", employeeID)
	}

	// Existing account: reset password and promote
	if existing, err := models.GetEmployeeByID(employeeID); err == nil {
		user := &User{Employee: *existing}
		if err := user.SetPassword(password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user.Employee.Name = name
		user.Employee.Email = email
		user.Role = models.RoleAdmin

		if err := db.Save(&user.Employee).Error; err != nil {
			log.Fatalf("Failed to update admin user: %v", err)
		}

		fmt.Printf("Admin user already existed - password has been reset:\n")
		fmt.Printf("ID: %s\nEmail: %s\nName: %s\n", user.EmployeeID, user.Employee.Email, user.Employee.Name)
		return
	}

	user := User{Employee: models.Employee{
		EmployeeID:  employeeID,
		Name:        name,
		Email:       email,
		Role:        models.RoleAdmin,
		CompanyData: []byte("{}"),
	}}

	if err := user.SetPassword(password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Create(&user.Employee).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created successfully:\n")
	fmt.Printf("ID: %s\nEmail: %s\nName: %s\n", user.EmployeeID, user.Employee.Email, user.Employee.Name)
}
