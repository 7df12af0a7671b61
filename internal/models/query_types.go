// internal/models/query_types.go
package models

import "strings"

// SortKey names a sortable field of a listing row.
type SortKey string

const (
	SortByID             SortKey = "id"
	SortByName           SortKey = "name"
	SortByAssessmentDate SortKey = "assessment_date"

	SortByAltmanZScore      SortKey = "altman_z_score"
	SortByTafflerZScore     SortKey = "taffler_z_score"
	SortByCombinedRiskLevel SortKey = "combined_risk_level"
	SortByTotalAssets       SortKey = "total_assets"
	SortByLiabilities       SortKey = "liabilities"
	SortBySales             SortKey = "sales"

	SortByCreditScore   SortKey = "credit_score"
	SortByRiskLevel     SortKey = "risk_level"
	SortByMonthlyIncome SortKey = "monthly_income"
	SortByCreditAmount  SortKey = "credit_amount"
	SortByAge           SortKey = "age"
)

// ParseSortKey accepts the entity-specific name fields as aliases of SortByName.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "company_name", "full_name":
		return SortByName
	default:
		return k
	}
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	default:
		return "", false
	}
}

func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Filter narrows a listing. Zero-valued fields do not filter.
type Filter struct {
	Name      string `json:"name,omitempty"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// MatchesName is a case-insensitive substring test.
func (f Filter) MatchesName(name string) bool {
	if f.Name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Name))
}

// MatchesDate tests the inclusive [StartDate, EndDate] range.
func (f Filter) MatchesDate(d Date) bool {
	if !f.StartDate.IsZero() && d.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && d.After(f.EndDate) {
		return false
	}
	return true
}
