package llm

import (
	"encoding/json"
	"sort"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
)

// EmployeeRecord is the export shape fed into the selection model.
type EmployeeRecord struct {
	EmployeeID  string          `json:"employee_id"`
	CompanyData json.RawMessage `json:"company_data"`
}

// Selector picks employees for proactive wellness outreach from the exported
// company data. The production model runs out of process; the installed
// selector is swappable for that reason.
type Selector func(records []EmployeeRecord) ([]string, error)

// DefaultSelector flags employees whose latest vibemeter response is at or
// below LLM.VIBE_THRESHOLD (default 2 on the 1-6 scale).
// TODO: replace with a call to the selection endpoint once the analysis
// service exposes one.
func DefaultSelector(records []EmployeeRecord) ([]string, error) {
	threshold := settings.Get("LLM.VIBE_THRESHOLD", 2).Int()

	var selected []string
	for _, record := range records {
		var data struct {
			Vibemeter []struct {
				ResponseDate string `json:"Response_Date"`
				VibeScore    int    `json:"Vibe_Score"`
			} `json:"vibemeter"`
		}
		if err := json.Unmarshal(record.CompanyData, &data); err != nil {
			log.Warning("[llm] skipping employee %s: unparsable company data: %v", record.EmployeeID, err)
			continue
		}
		if len(data.Vibemeter) == 0 {
			continue
		}

		sort.Slice(data.Vibemeter, func(i, j int) bool {
			return data.Vibemeter[i].ResponseDate < data.Vibemeter[j].ResponseDate
		})

		latest := data.Vibemeter[len(data.Vibemeter)-1]
		if latest.VibeScore <= threshold {
			selected = append(selected, record.EmployeeID)
		}
	}
	return selected, nil
}
