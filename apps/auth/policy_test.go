package auth

import (
	"testing"

	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
)

func user(id, role string) *User {
	return &User{Employee: models.Employee{EmployeeID: id, Role: role}}
}

func TestAuthorizeAdminIsUnrestricted(t *testing.T) {
	admin := user("EMP0001", models.RoleAdmin)

	for _, action := range []Action{
		ActionViewEmployee, ActionManageEmployee, ActionBlockEmployee,
		ActionViewChain, ActionManageChain, ActionViewSession,
		ActionManageSession, ActionViewChat, ActionManageChat,
		ActionViewMeet, ActionScheduleMeet, ActionRunJobs,
	} {
		assert.NoError(t, Authorize(admin, action, "EMP9999", ""), string(action))
	}
}

func TestAuthorizeHRScopedToReports(t *testing.T) {
	hr := user("EMP0100", models.RoleHR)

	// managed employee
	assert.NoError(t, Authorize(hr, ActionViewChain, "EMP0200", "EMP0100"))
	assert.NoError(t, Authorize(hr, ActionManageSession, "EMP0200", "EMP0100"))
	assert.NoError(t, Authorize(hr, ActionBlockEmployee, "EMP0200", "EMP0100"))

	// someone else's report
	assert.Error(t, Authorize(hr, ActionViewChain, "EMP0200", "EMP0101"))
	assert.Error(t, Authorize(hr, ActionBlockEmployee, "EMP0200", ""))

	// own resources
	assert.NoError(t, Authorize(hr, ActionViewMeet, "EMP0100", ""))

	// admin-only actions stay closed
	assert.Error(t, Authorize(hr, ActionManageEmployee, "EMP0200", "EMP0100"))
	assert.Error(t, Authorize(hr, ActionRunJobs, "", ""))
}

func TestAuthorizeEmployeeSelfOnly(t *testing.T) {
	emp := user("EMP0300", models.RoleEmployee)

	assert.NoError(t, Authorize(emp, ActionViewSession, "EMP0300", ""))
	assert.NoError(t, Authorize(emp, ActionUseChat, "EMP0300", ""))
	assert.Error(t, Authorize(emp, ActionViewSession, "EMP0301", ""))
	assert.Error(t, Authorize(emp, ActionManageChain, "EMP0300", ""))
	assert.Error(t, Authorize(emp, ActionScheduleMeet, "EMP0300", ""))
}

func TestAuthorizeAnonymousAndUnknownRole(t *testing.T) {
	assert.Error(t, Authorize(nil, ActionViewSession, "EMP0001", ""))
	assert.Error(t, Authorize(user("", models.RoleEmployee), ActionViewSession, "EMP0001", ""))
	assert.Error(t, Authorize(user("EMP0400", "contractor"), ActionViewSession, "EMP0400", ""))
}

func TestAuthorizeEmployeeResolvesManager(t *testing.T) {
	hr := user("EMP0100", models.RoleHR)
	manager := "EMP0100"
	subject := &models.Employee{EmployeeID: "EMP0200", Role: models.RoleEmployee, ManagerID: &manager}

	assert.NoError(t, AuthorizeEmployee(hr, ActionViewChain, subject))

	subject.ManagerID = nil
	assert.Error(t, AuthorizeEmployee(hr, ActionViewChain, subject))
}
