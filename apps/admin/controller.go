package admin

import (
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

var validate = validator.New()

// CreateUserRequest is the payload for account creation.
type CreateUserRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Role       string  `json:"role" validate:"required,oneof=employee hr admin"`
	ManagerID  *string `json:"manager_id,omitempty"`
}

// DeleteUserRequest identifies the account to remove.
type DeleteUserRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Reason     *string `json:"reason,omitempty"`
}

// BlockUserRequest identifies the account to block or unblock.
type BlockUserRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Reason     *string `json:"reason,omitempty"`
}

// CreateSessionRequest schedules a manual counseling session.
type CreateSessionRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

// CreateUser creates an account with the given role.
func (c Controller) CreateUser(request *evo.Request) any {
	var req CreateUserRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	if err := validate.Struct(req); err != nil {
		return response.Error(response.Validation(err.Error()))
	}
	if !auth.ValidEmployeeID(req.EmployeeID) {
		return response.Error(response.Validation("Employee ID must be EMP followed by 4 digits"))
	}

	if _, err := models.GetEmployeeByID(req.EmployeeID); err == nil {
		return response.Error(response.Validation("Employee ID is already taken"))
	}
	if _, err := models.GetEmployeeByEmail(req.Email); err == nil {
		return response.Error(response.Validation("Email is already registered"))
	}
	if req.ManagerID != nil {
		if _, err := models.GetEmployeeByID(*req.ManagerID); err != nil {
			return response.Error(response.Validation("Manager does not exist"))
		}
	}

	user := auth.User{Employee: models.Employee{
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		ManagerID:   req.ManagerID,
		CompanyData: []byte("{}"),
	}}
	if err := user.SetPassword(req.Password); err != nil {
		log.Error("[admin] failed to hash password: %v", err)
		return response.Error(response.ErrInternalError)
	}

	if err := models.CreateEmployee(&user.Employee); err != nil {
		log.Error("[admin] failed to create user %s: %v", req.EmployeeID, err)
		return response.Error(response.ErrDatabaseError)
	}
	return response.Created(user.Employee)
}

// DeleteUser removes an account. Admin accounts and the caller's own account
// are protected.
func (c Controller) DeleteUser(request *evo.Request) any {
	actor := auth.CurrentUser(request)

	var req DeleteUserRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	employee, err := models.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if employee.Role == models.RoleAdmin {
		return response.Error(response.Validation("Cannot delete an administrator account"))
	}
	if actor != nil && employee.EmployeeID == actor.EmployeeID {
		return response.Error(response.Validation("Cannot delete your own account"))
	}

	if err := models.DeleteEmployee(req.EmployeeID); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.Message("Employee " + req.EmployeeID + " deleted")
}

// ListUsers returns a paginated account listing with optional role and
// blocked filters.
func (c Controller) ListUsers(request *evo.Request) any {
	query := db.Model(&models.Employee{})

	if role := request.Query("role").String(); role != "" {
		query = query.Where("role = ?", role)
	}
	if blocked := request.Query("blocked").String(); blocked != "" {
		query = query.Where("is_blocked = ?", blocked == "true")
	}
	if search := request.Query("search").String(); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR employee_id LIKE ?", like, like, like)
	}
	query = query.Order("employee_id")

	var users []models.Employee
	p, err := pagination.New(query, request, &users, pagination.Options{MaxSize: 100})
	if err != nil {
		return response.Error(response.ErrInternalError)
	}

	return response.OK(map[string]interface{}{
		"users":       users,
		"total":       p.Records,
		"page":        p.CurrentPage,
		"page_size":   p.Size,
		"total_pages": p.Pages,
	})
}

// PendingSessions lists every pending session in the system.
func (c Controller) PendingSessions(request *evo.Request) any {
	sessions, err := models.GetSessionsByStatus(models.SessionStatusPending)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(sessions, len(sessions))
}

// CreateSessionForUser books a standalone counseling session for a user.
func (c Controller) CreateSessionForUser(request *evo.Request) any {
	employee, err := models.GetEmployeeByID(request.Param("user_id").String())
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if employee.IsBlocked {
		return response.Error(response.Validation("Employee is blocked"))
	}

	var req CreateSessionRequest
	if err := request.BodyParser(&req); err != nil || req.ScheduledAt.IsZero() {
		return response.Error(response.Validation("scheduled_at is required"))
	}

	chat := models.NewChat(employee.EmployeeID)
	if err := models.CreateChat(chat); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	session := models.NewSession(employee.EmployeeID, chat.ChatID, req.ScheduledAt.UTC(), req.Notes)
	if err := models.CreateSession(session); err != nil {
		if dErr := models.DeleteChat(chat.ChatID); dErr != nil {
			log.Error("[admin] failed to clean up chat %s: %v", chat.ChatID, dErr)
		}
		return response.Error(response.ErrDatabaseError)
	}

	return response.Created(map[string]string{
		"chat_id":    chat.ChatID,
		"session_id": session.SessionID,
	})
}

// BlockUser blocks an account. Admins block anyone; HR only their reports.
func (c Controller) BlockUser(request *evo.Request) any {
	return c.setBlocked(request, true)
}

// UnblockUser lifts a block under the same access rules.
func (c Controller) UnblockUser(request *evo.Request) any {
	return c.setBlocked(request, false)
}

func (c Controller) setBlocked(request *evo.Request, blocked bool) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	var req BlockUserRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	employee, err := models.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if err := auth.AuthorizeEmployee(actor, auth.ActionBlockEmployee, employee); err != nil {
		return response.Error(response.ErrForbidden)
	}

	if employee.IsBlocked == blocked {
		if blocked {
			return response.Error(response.Validation("Employee is already blocked"))
		}
		return response.Error(response.Validation("Employee is not blocked"))
	}

	if blocked {
		now := time.Now().UTC()
		employee.IsBlocked = true
		employee.BlockedAt = &now
		employee.BlockedBy = &actor.EmployeeID
	} else {
		employee.IsBlocked = false
		employee.BlockedAt = nil
		employee.BlockedBy = nil
	}

	if err := models.SaveEmployee(employee); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	if blocked {
		return response.Message("Employee " + req.EmployeeID + " blocked")
	}
	return response.Message("Employee " + req.EmployeeID + " unblocked")
}
