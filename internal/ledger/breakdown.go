package ledger

import (
	"siteledger/internal/model"
)

// DeletedProjectLabel names projects that transactions still reference
// but that no longer resolve in the project registry.
const DeletedProjectLabel = "(deleted project)"

// BreakdownEntry is one project's balance within a supplier's ledger.
type BreakdownEntry struct {
	ProjectID     int64  `json:"project_id"`
	ProjectName   string `json:"project_name"`
	ProjectStatus string `json:"project_status"`
	Balance
}

// Breakdown groups a supplier's transactions by project and computes a
// balance per group. Projects appear in order of first appearance in the
// transaction set. Fully settled projects (raw balance zero) are dropped:
// they are not operationally interesting on a payables screen. Callers
// needing settled projects too should call Calculate per project instead.
func Breakdown(txns []model.SupplierTransaction, supplierID int64, projects []model.Project) []BreakdownEntry {
	byID := make(map[int64]*model.Project, len(projects))
	for i := range projects {
		byID[projects[i].ID] = &projects[i]
	}

	seen := make(map[int64]bool)
	order := make([]int64, 0)
	for i := range txns {
		t := &txns[i]
		if t.SupplierID != supplierID || seen[t.ProjectID] {
			continue
		}
		seen[t.ProjectID] = true
		order = append(order, t.ProjectID)
	}

	entries := make([]BreakdownEntry, 0, len(order))
	for _, projectID := range order {
		balance := Calculate(txns, supplierID, projectID)
		if balance.RawBalance.IsZero() {
			continue
		}

		entry := BreakdownEntry{
			ProjectID:     projectID,
			ProjectName:   DeletedProjectLabel,
			ProjectStatus: "UNKNOWN",
			Balance:       balance,
		}
		if p, ok := byID[projectID]; ok {
			entry.ProjectName = p.Name
			entry.ProjectStatus = p.Status
		}
		entries = append(entries, entry)
	}
	return entries
}
