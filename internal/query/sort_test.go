package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

func companyRows() []models.CompanySummary {
	return []models.CompanySummary{
		{ID: 1, CompanyName: "beta", AssessmentDate: models.NewDate(2024, time.February, 1), AltmanZScore: 0.5, CombinedRiskLevel: models.RiskHigh},
		{ID: 2, CompanyName: "Alpha", AssessmentDate: models.NewDate(2023, time.December, 31), AltmanZScore: -1, CombinedRiskLevel: models.RiskLow},
		{ID: 3, CompanyName: "alpha", AssessmentDate: models.NewDate(2024, time.January, 15), AltmanZScore: -0.2, CombinedRiskLevel: models.RiskMedium},
		{ID: 4, CompanyName: "Gamma", AssessmentDate: models.NewDate(2024, time.January, 15), AltmanZScore: -1, CombinedRiskLevel: models.RiskLow},
	}
}

func ids(rows []models.CompanySummary) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestSortCompanies_NameIsCaseInsensitiveAndStable(t *testing.T) {
	got, err := SortCompanies(companyRows(), models.SortByName, models.Ascending)
	require.NoError(t, err)
	// "Alpha" and "alpha" tie and keep input order
	assert.Equal(t, []int64{2, 3, 1, 4}, ids(got))

	got, err = SortCompanies(companyRows(), models.SortByName, models.Descending)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1, 2, 3}, ids(got))
}

func TestSortCompanies_DateByCalendarValue(t *testing.T) {
	got, err := SortCompanies(companyRows(), models.SortByAssessmentDate, models.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4, 1}, ids(got))
}

func TestSortCompanies_NumericScore(t *testing.T) {
	got, err := SortCompanies(companyRows(), models.SortByAltmanZScore, models.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 3, 1}, ids(got))
}

func TestSortCompanies_RiskLevelIsLexical(t *testing.T) {
	got, err := SortCompanies(companyRows(), models.SortByCombinedRiskLevel, models.Ascending)
	require.NoError(t, err)

	levels := make([]models.RiskLevel, len(got))
	for i, r := range got {
		levels[i] = r.CombinedRiskLevel
	}
	assert.Equal(t, []models.RiskLevel{models.RiskHigh, models.RiskLow, models.RiskLow, models.RiskMedium}, levels)
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	rows := companyRows()
	_, err := SortCompanies(rows, models.SortByID, models.Descending)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(rows))
}

func TestSortBy_UnknownKey(t *testing.T) {
	_, err := SortCompanies(companyRows(), models.SortByCreditScore, models.Ascending)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidSortKey))

	_, err = SortIndividuals(nil, "shoe_size", models.Ascending)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidSortKey))
}

func TestSorter_ToggleAndReset(t *testing.T) {
	s := NewSorter(CompanyComparators)
	rows := companyRows()

	asc, err := s.Sort(rows, models.SortByAltmanZScore)
	require.NoError(t, err)
	assert.Equal(t, models.Ascending, s.State().Direction)
	assert.Equal(t, []int64{2, 4, 3, 1}, ids(asc))

	desc, err := s.Sort(asc, models.SortByAltmanZScore)
	require.NoError(t, err)
	assert.Equal(t, models.Descending, s.State().Direction)
	// distinct keys reversed, the tie (2, 4) keeps its order
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(desc))

	again, err := s.Sort(desc, models.SortByAltmanZScore)
	require.NoError(t, err)
	assert.Equal(t, ids(asc), ids(again))

	_, err = s.Sort(again, models.SortByName)
	require.NoError(t, err)
	assert.Equal(t, SortState{Key: models.SortByName, Direction: models.Ascending}, s.State())
}

func TestSorter_UnknownKeyKeepsState(t *testing.T) {
	s := NewSorter(IndividualComparators)
	_, err := s.Select(models.SortByAge)
	require.NoError(t, err)

	_, err = s.Select(models.SortBySales)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidSortKey))
	assert.Equal(t, models.SortByAge, s.State().Key)
}

func TestSorter_Restore(t *testing.T) {
	s := NewSorter(IndividualComparators)
	s.Restore(SortState{Key: models.SortByCreditScore, Direction: models.Descending})

	st, err := s.Select(models.SortByCreditScore)
	require.NoError(t, err)
	assert.Equal(t, models.Ascending, st.Direction)

	s.Restore(SortState{Key: "bogus", Direction: models.Descending})
	assert.Equal(t, SortState{}, s.State())
}

func TestSortIndividuals_Age(t *testing.T) {
	rows := []models.IndividualSummary{
		{ID: 1, Age: 40, RiskLevel: models.RiskMedium},
		{ID: 2, Age: 22, RiskLevel: models.RiskHigh},
		{ID: 3, Age: 40, RiskLevel: models.RiskLow},
	}
	got, err := SortIndividuals(rows, models.SortByAge, models.Descending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, int64(2), got[2].ID)
}
