package auth

import (
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

// Action names one permission-checked operation.
type Action string

const (
	ActionViewEmployee   Action = "employee.view"
	ActionManageEmployee Action = "employee.manage" // create/delete accounts
	ActionBlockEmployee  Action = "employee.block"
	ActionViewChain      Action = "chain.view"
	ActionManageChain    Action = "chain.manage" // create/cancel/escalate
	ActionViewSession    Action = "session.view"
	ActionManageSession  Action = "session.manage" // create/cancel
	ActionViewChat       Action = "chat.view"
	ActionUseChat        Action = "chat.use"    // converse with the bot
	ActionManageChat     Action = "chat.manage" // mode switch, manual escalation
	ActionViewMeet       Action = "meet.view"
	ActionScheduleMeet   Action = "meet.schedule"
	ActionRunJobs        Action = "jobs.run"
)

// Relationship is the required relation between the actor and the employee
// the resource belongs to.
type Relationship int

const (
	// RelNone forbids the action for the role entirely.
	RelNone Relationship = iota
	// RelAny allows the action on any employee's resources.
	RelAny
	// RelSelf allows the action only on the actor's own resources.
	RelSelf
	// RelReport allows the action on resources of employees the actor
	// manages (HR assignment), and on the actor's own.
	RelReport
)

// policy is the single source of truth for authorization. One row per
// (role, action); anything absent is denied.
var policy = map[string]map[Action]Relationship{
	models.RoleAdmin: {
		ActionViewEmployee:   RelAny,
		ActionManageEmployee: RelAny,
		ActionBlockEmployee:  RelAny,
		ActionViewChain:      RelAny,
		ActionManageChain:    RelAny,
		ActionViewSession:    RelAny,
		ActionManageSession:  RelAny,
		ActionViewChat:       RelAny,
		ActionManageChat:     RelAny,
		ActionViewMeet:       RelAny,
		ActionScheduleMeet:   RelAny,
		ActionRunJobs:        RelAny,
	},
	models.RoleHR: {
		ActionViewEmployee:  RelReport,
		ActionBlockEmployee: RelReport,
		ActionViewChain:     RelReport,
		ActionManageChain:   RelReport,
		ActionViewSession:   RelReport,
		ActionManageSession: RelReport,
		ActionViewChat:      RelReport,
		ActionManageChat:    RelReport,
		ActionViewMeet:      RelReport,
		ActionScheduleMeet:  RelReport,
	},
	models.RoleEmployee: {
		ActionViewEmployee: RelSelf,
		ActionViewSession:  RelSelf,
		ActionUseChat:      RelSelf,
		ActionViewChat:     RelSelf,
		ActionViewMeet:     RelSelf,
	},
}

// Authorize checks whether the actor may perform action on a resource whose
// subject employee is ownerID, managed by managerID (empty when unknown).
// Returns nil when permitted, response.ErrForbidden otherwise.
func Authorize(actor *User, action Action, ownerID, managerID string) error {
	if actor == nil || actor.Anonymous() {
		return response.ErrUnauthorized
	}

	rel, ok := policy[actor.Role][action]
	if !ok || rel == RelNone {
		return response.ErrForbidden
	}

	switch rel {
	case RelAny:
		return nil
	case RelSelf:
		if actor.EmployeeID == ownerID {
			return nil
		}
	case RelReport:
		if actor.EmployeeID == ownerID || (managerID != "" && actor.EmployeeID == managerID) {
			return nil
		}
	}
	return response.ErrForbidden
}

// AuthorizeEmployee is Authorize against an employee record, resolving the
// manager relation from the record itself.
func AuthorizeEmployee(actor *User, action Action, employee *models.Employee) error {
	managerID := ""
	if employee.ManagerID != nil {
		managerID = *employee.ManagerID
	}
	return Authorize(actor, action, employee.EmployeeID, managerID)
}
