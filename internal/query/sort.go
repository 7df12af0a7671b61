package query

import (
	"sort"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

// Comparator returns a negative number when a sorts before b, zero on a tie and
// a positive number otherwise.
type Comparator[T any] func(a, b T) int

// Comparators maps each supported key to its ascending comparator.
type Comparators[T any] map[models.SortKey]Comparator[T]

// SortBy returns a sorted copy of items. The sort is stable in both directions:
// ties keep their incoming relative order.
func SortBy[T any](items []T, cmps Comparators[T], key models.SortKey, dir models.Direction) ([]T, error) {
	cmp, ok := cmps[key]
	if !ok {
		return nil, apperrors.NewInvalidSortKeyError(string(key))
	}
	out := make([]T, len(items))
	copy(out, items)

	if dir == models.Descending {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) > 0 })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	}
	return out, nil
}

// SortState is the persisted part of a Sorter.
type SortState struct {
	Key       models.SortKey   `json:"key,omitempty"`
	Direction models.Direction `json:"direction,omitempty"`
}

// Sorter remembers the last key and direction. Selecting the same key again
// flips the direction; selecting a new key starts ascending.
type Sorter[T any] struct {
	cmps  Comparators[T]
	state SortState
}

func NewSorter[T any](cmps Comparators[T]) *Sorter[T] {
	return &Sorter[T]{cmps: cmps}
}

// Restore resumes from a saved state. An unknown key resets the sorter.
func (s *Sorter[T]) Restore(st SortState) {
	if _, ok := s.cmps[st.Key]; !ok {
		s.state = SortState{}
		return
	}
	if st.Direction != models.Descending {
		st.Direction = models.Ascending
	}
	s.state = st
}

func (s *Sorter[T]) State() SortState {
	return s.state
}

// Select applies the toggle rule for key and returns the resulting state.
func (s *Sorter[T]) Select(key models.SortKey) (SortState, error) {
	if _, ok := s.cmps[key]; !ok {
		return s.state, apperrors.NewInvalidSortKeyError(string(key))
	}
	if s.state.Key == key {
		s.state.Direction = s.state.Direction.Reverse()
	} else {
		s.state = SortState{Key: key, Direction: models.Ascending}
	}
	return s.state, nil
}

// Sort selects key and sorts items with the resulting direction.
func (s *Sorter[T]) Sort(items []T, key models.SortKey) ([]T, error) {
	st, err := s.Select(key)
	if err != nil {
		return nil, err
	}
	return SortBy(items, s.cmps, st.Key, st.Direction)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareRiskLexical orders risk tokens as plain strings: high < low < medium.
func compareRiskLexical(a, b models.RiskLevel) int {
	return strings.Compare(string(a), string(b))
}

// CompanyComparators covers every field of a company listing row.
var CompanyComparators = Comparators[models.CompanySummary]{
	models.SortByID:   func(a, b models.CompanySummary) int { return compareInt64(a.ID, b.ID) },
	models.SortByName: func(a, b models.CompanySummary) int { return compareFold(a.CompanyName, b.CompanyName) },
	models.SortByAssessmentDate: func(a, b models.CompanySummary) int {
		return a.AssessmentDate.Compare(b.AssessmentDate)
	},
	models.SortByAltmanZScore: func(a, b models.CompanySummary) int {
		return compareFloat(a.AltmanZScore, b.AltmanZScore)
	},
	models.SortByTafflerZScore: func(a, b models.CompanySummary) int {
		return compareFloat(a.TafflerZScore, b.TafflerZScore)
	},
	models.SortByCombinedRiskLevel: func(a, b models.CompanySummary) int {
		return compareRiskLexical(a.CombinedRiskLevel, b.CombinedRiskLevel)
	},
	models.SortByTotalAssets: func(a, b models.CompanySummary) int { return compareFloat(a.TotalAssets, b.TotalAssets) },
	models.SortByLiabilities: func(a, b models.CompanySummary) int { return compareFloat(a.Liabilities, b.Liabilities) },
	models.SortBySales:       func(a, b models.CompanySummary) int { return compareFloat(a.Sales, b.Sales) },
}

// IndividualComparators covers every field of an individual listing row.
var IndividualComparators = Comparators[models.IndividualSummary]{
	models.SortByID:   func(a, b models.IndividualSummary) int { return compareInt64(a.ID, b.ID) },
	models.SortByName: func(a, b models.IndividualSummary) int { return compareFold(a.FullName, b.FullName) },
	models.SortByAssessmentDate: func(a, b models.IndividualSummary) int {
		return a.AssessmentDate.Compare(b.AssessmentDate)
	},
	models.SortByCreditScore: func(a, b models.IndividualSummary) int {
		return compareFloat(a.CreditScore, b.CreditScore)
	},
	models.SortByRiskLevel: func(a, b models.IndividualSummary) int {
		return compareRiskLexical(a.RiskLevel, b.RiskLevel)
	},
	models.SortByMonthlyIncome: func(a, b models.IndividualSummary) int {
		return compareFloat(a.MonthlyIncome, b.MonthlyIncome)
	},
	models.SortByCreditAmount: func(a, b models.IndividualSummary) int {
		return compareFloat(a.CreditAmount, b.CreditAmount)
	},
	models.SortByAge: func(a, b models.IndividualSummary) int { return compareInt64(int64(a.Age), int64(b.Age)) },
}

func SortCompanies(rows []models.CompanySummary, key models.SortKey, dir models.Direction) ([]models.CompanySummary, error) {
	return SortBy(rows, CompanyComparators, key, dir)
}

func SortIndividuals(rows []models.IndividualSummary, key models.SortKey, dir models.Direction) ([]models.IndividualSummary, error) {
	return SortBy(rows, IndividualComparators, key, dir)
}
