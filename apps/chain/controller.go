package chain

import (
	"errors"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

// CreateChainRequest is the payload for manual chain creation by staff.
type CreateChainRequest struct {
	EmployeeID    string  `json:"employee_id" validate:"required"`
	ScheduledDate *string `json:"scheduled_date,omitempty"` // YYYY-MM-DD
	ScheduledTime *string `json:"scheduled_time,omitempty"` // HH:MM
	Notes         *string `json:"notes,omitempty"`
}

// EscalateChainRequest carries the escalation reason.
type EscalateChainRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateChain opens a counseling chain for an employee on staff request.
func (c Controller) CreateChain(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	var req CreateChainRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	employee, err := models.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if err := auth.AuthorizeEmployee(actor, auth.ActionManageChain, employee); err != nil {
		return response.Error(response.ErrForbidden)
	}

	var scheduledAt *time.Time
	if req.ScheduledDate != nil && req.ScheduledTime != nil {
		parsed, err := time.Parse("2006-01-02 15:04", *req.ScheduledDate+" "+*req.ScheduledTime)
		if err != nil {
			return response.Error(response.Validation("Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time."))
		}
		scheduledAt = &parsed
	}

	chain, err := Create(request.Context.UserContext(), req.EmployeeID, scheduledAt, req.Notes)
	if err != nil {
		if errors.Is(err, ErrActiveChainExists) {
			return response.Error(response.InvalidState("Employee already has an active counseling chain"))
		}
		log.Error("[chain] creation failed for employee %s: %v", req.EmployeeID, err)
		return response.Error(response.Upstream(err.Error()))
	}

	return response.Created(chain)
}

// GetChain returns one chain with its sessions.
func (c Controller) GetChain(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chain, err := models.GetChainByID(request.Param("chain_id").String())
	if err != nil {
		return response.Error(response.ErrChainNotFound)
	}
	if err := authorizeChain(actor, auth.ActionViewChain, chain); err != nil {
		return response.Error(response.ErrForbidden)
	}

	sessions, err := models.GetSessionsByIDs(chain.SessionIDs)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	return response.OK(map[string]any{
		"chain":    chain,
		"sessions": sessions,
	})
}

// ListEmployeeChains lists an employee's chains, newest first.
func (c Controller) ListEmployeeChains(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	employee, err := models.GetEmployeeByID(request.Param("employee_id").String())
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if err := auth.AuthorizeEmployee(actor, auth.ActionViewChain, employee); err != nil {
		return response.Error(response.ErrForbidden)
	}

	chains, err := models.GetChainsByEmployee(employee.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(chains, len(chains))
}

// CompleteChain finishes a chain and its active sessions.
func (c Controller) CompleteChain(request *evo.Request) any {
	return c.mutate(request, func(chain *models.Chain, actor *auth.User) error {
		return Complete(chain)
	})
}

// EscalateChain escalates a chain to HR with a reason.
func (c Controller) EscalateChain(request *evo.Request) any {
	var req EscalateChainRequest
	if err := request.BodyParser(&req); err != nil || req.Reason == "" {
		return response.Error(response.Validation("Escalation reason is required"))
	}
	return c.mutate(request, func(chain *models.Chain, actor *auth.User) error {
		return Escalate(chain, req.Reason)
	})
}

// CancelChain cancels an active or escalated chain.
func (c Controller) CancelChain(request *evo.Request) any {
	return c.mutate(request, func(chain *models.Chain, actor *auth.User) error {
		return Cancel(chain, actor.EmployeeID)
	})
}

func (c Controller) mutate(request *evo.Request, apply func(*models.Chain, *auth.User) error) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chain, err := models.GetChainByID(request.Param("chain_id").String())
	if err != nil {
		return response.Error(response.ErrChainNotFound)
	}
	if err := authorizeChain(actor, auth.ActionManageChain, chain); err != nil {
		return response.Error(response.ErrForbidden)
	}

	if err := apply(chain, actor); err != nil {
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrConflict) {
			return response.Error(response.InvalidState(err.Error()))
		}
		log.Error("[chain] operation on chain %s failed: %v", chain.ChainID, err)
		return response.Error(response.Upstream(err.Error()))
	}

	return response.OK(chain)
}

func authorizeChain(actor *auth.User, action auth.Action, chain *models.Chain) error {
	employee, err := models.GetEmployeeByID(chain.EmployeeID)
	if err != nil {
		return err
	}
	return auth.AuthorizeEmployee(actor, action, employee)
}
