package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
	"github.com/solacehr/solace-backend/apps/chain"
	"github.com/solacehr/solace-backend/apps/llm"
	"github.com/solacehr/solace-backend/apps/models"
)

// selector is swappable for tests and for a future remote selection endpoint.
var selector llm.Selector = llm.DefaultSelector

// CooldownDays is how long after a session creation an employee is exempt
// from re-selection.
const CooldownDays = 14

func handleEmployeeSelection(ctx *JobContext) error {
	employees, err := models.GetAllEmployees()
	if err != nil {
		return err
	}

	records := make([]llm.EmployeeRecord, 0, len(employees))
	for _, employee := range employees {
		if employee.Role != models.RoleEmployee || employee.IsBlocked {
			continue
		}
		records = append(records, llm.EmployeeRecord{
			EmployeeID:  employee.EmployeeID,
			CompanyData: json.RawMessage(employee.CompanyData),
		})
	}

	selected, err := selector(records)
	if err != nil {
		return err
	}
	ctx.SetMetadata("selected", len(selected))

	cooldownDays := settings.Get("JOBS.SELECTION_COOLDOWN_DAYS", CooldownDays).Int()
	cutoff := time.Now().UTC().AddDate(0, 0, -cooldownDays)
	recent, err := models.GetSessionsCreatedSince(cutoff)
	if err != nil {
		return err
	}
	onCooldown := make(map[string]bool, len(recent))
	for _, session := range recent {
		onCooldown[session.EmployeeID] = true
	}

	eligible := FilterEligible(selected, onCooldown, hasActiveChain)
	ctx.SetMetadata("eligible", len(eligible))

	created := 0
	for _, employeeID := range eligible {
		if _, err := chain.Create(context.Background(), employeeID, nil, nil); err != nil {
			if errors.Is(err, chain.ErrActiveChainExists) {
				continue
			}
			log.Error("[%s] failed to create chain for employee %s: %v", JobEmployeeSelection, employeeID, err)
			continue
		}
		created++
		ctx.IncrementProcessed(1)
	}
	ctx.SetMetadata("chains_created", created)
	return nil
}

// FilterEligible drops selected employees who are on the session cooldown or
// already have an active chain. activeCheck is injected so the filter stays
// testable without a database.
func FilterEligible(selected []string, onCooldown map[string]bool, activeCheck func(string) bool) []string {
	var eligible []string
	for _, employeeID := range selected {
		if onCooldown[employeeID] {
			continue
		}
		if activeCheck(employeeID) {
			continue
		}
		eligible = append(eligible, employeeID)
	}
	return eligible
}

func hasActiveChain(employeeID string) bool {
	_, err := models.GetActiveChainByEmployee(employeeID)
	return err == nil
}
