package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

func sampleCompany() models.CompanyFinancials {
	return models.CompanyFinancials{
		CurrentAssets:        700000,
		CurrentLiabilities:   200000,
		DebtCapital:          500000,
		Liabilities:          800000,
		SalesProfit:          300000,
		ShortTermLiabilities: 200000,
		LongTermLiabilities:  300000,
		TotalAssets:          2000000,
		Sales:                3000000,
	}
}

func sampleIndividual() models.IndividualFactors {
	return models.IndividualFactors{
		MonthlyIncome:      100000,
		MonthlyExpenses:    60000,
		CreditAmount:       500000,
		CreditHistoryScore: 0.8,
		HasCollateral:      true,
		EmploymentYears:    5,
		Age:                35,
	}
}

func TestAltmanZScore_Scenario(t *testing.T) {
	z, err := AltmanZScore(sampleCompany())
	require.NoError(t, err)
	assert.InDelta(t, -4.1091125, z, 1e-9)

	level, err := ClassifyAltman(z)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, level)
}

func TestTafflerTScore_Scenario(t *testing.T) {
	score, err := TafflerTScore(sampleCompany())
	require.NoError(t, err)
	assert.InDelta(t, 1.17575, score, 1e-9)

	level, err := ClassifyTaffler(score)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, level)
}

func TestEvaluateCompany_Scenario(t *testing.T) {
	p, err := EvaluateCompany(sampleCompany())
	require.NoError(t, err)

	assert.Equal(t, -4.1091, p.AltmanZScore)
	assert.Equal(t, 1.1758, p.TafflerZScore)
	assert.Equal(t, models.RiskLow, p.AltmanRiskLevel)
	assert.Equal(t, models.RiskLow, p.TafflerRiskLevel)
	assert.Equal(t, models.RiskLow, p.CombinedRiskLevel)
	assert.Equal(t, Recommendation(ModelAltman, models.RiskLow), p.AltmanRecommendation)
	assert.Equal(t, Recommendation(ModelTaffler, models.RiskLow), p.TafflerRecommendation)
	assert.Equal(t, CombinedRecommendation(models.RiskLow), p.CombinedRecommendation)
	assert.NotEqual(t, p.AltmanRecommendation, p.CombinedRecommendation)
}

func TestEvaluateCompany_WorstBandWins(t *testing.T) {
	f := sampleCompany()
	// Z stays low at about -0.89 while zero profit and sales push T into high.
	f.CurrentAssets = 100000
	f.SalesProfit = 0
	f.Sales = 0
	f.LongTermLiabilities = 0

	p, err := EvaluateCompany(f)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, p.AltmanRiskLevel)
	assert.Equal(t, models.RiskHigh, p.TafflerRiskLevel)
	assert.Equal(t, models.RiskHigh, p.CombinedRiskLevel)
}

func TestEvaluateCompany_ValidationReportsEveryField(t *testing.T) {
	f := sampleCompany()
	f.TotalAssets = 0
	f.ShortTermLiabilities = -1
	f.Sales = -5

	_, err := EvaluateCompany(f)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))

	fields := map[string]bool{}
	for _, v := range apperrors.AsStandard(err).Fields {
		fields[v.Field] = true
	}
	assert.True(t, fields["total_assets"])
	assert.True(t, fields["short_term_liabilities"])
	assert.True(t, fields["sales"])
	assert.False(t, fields["liabilities"])
}

func TestEvaluateCompany_NegativeProfitAllowed(t *testing.T) {
	f := sampleCompany()
	f.SalesProfit = -300000

	p, err := EvaluateCompany(f)
	require.NoError(t, err)
	assert.Less(t, p.TafflerZScore, 1.0)
}

func TestFormulas_ZeroDenominatorIsArithmetic(t *testing.T) {
	f := sampleCompany()
	f.CurrentLiabilities = 0
	_, err := AltmanZScore(f)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeArithmetic))

	f = sampleCompany()
	f.TotalAssets = 0
	_, err = TafflerTScore(f)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeArithmetic))
	assert.ErrorIs(t, err, apperrors.ErrArithmetic)
}

func TestFormulas_NonFiniteInputIsValidation(t *testing.T) {
	f := sampleCompany()
	f.DebtCapital = math.NaN()
	_, err := AltmanZScore(f)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))

	f = sampleCompany()
	f.Sales = math.Inf(1)
	_, err = TafflerTScore(f)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestClassifiers_BoundariesAtBothEdges(t *testing.T) {
	tests := []struct {
		model Model
		score float64
		want  models.RiskLevel
	}{
		{ModelAltman, -0.5000001, models.RiskLow},
		{ModelAltman, -0.5, models.RiskMedium},
		{ModelAltman, -0.0000001, models.RiskMedium},
		{ModelAltman, 0.0, models.RiskHigh},
		{ModelAltman, 42, models.RiskHigh},

		{ModelTaffler, 0.3000001, models.RiskLow},
		{ModelTaffler, 0.3, models.RiskMedium},
		{ModelTaffler, 0.2000001, models.RiskMedium},
		{ModelTaffler, 0.2, models.RiskHigh},
		{ModelTaffler, -3, models.RiskHigh},

		{ModelCreditScore, 700.01, models.RiskLow},
		{ModelCreditScore, 700, models.RiskMedium},
		{ModelCreditScore, 500.01, models.RiskMedium},
		{ModelCreditScore, 500, models.RiskHigh},
		{ModelCreditScore, 300, models.RiskHigh},
	}

	for _, tt := range tests {
		got, err := Classify(tt.model, tt.score)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s(%v)", tt.model, tt.score)
	}
}

func TestClassify_RejectsNaNAndUnknownModel(t *testing.T) {
	for _, m := range []Model{ModelAltman, ModelTaffler, ModelCreditScore} {
		_, err := Classify(m, math.NaN())
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed), string(m))
	}

	_, err := Classify("beaver", 1)
	assert.Error(t, err)
}

func TestClassify_AlwaysReturnsAKnownBand(t *testing.T) {
	for _, m := range []Model{ModelAltman, ModelTaffler, ModelCreditScore} {
		for s := -1000.0; s <= 1000; s += 0.37 {
			level, err := Classify(m, s)
			require.NoError(t, err)
			assert.True(t, level.Valid())
		}
	}
}

func TestCombine(t *testing.T) {
	levels := []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh}

	for _, a := range levels {
		same, err := Combine(a, a)
		require.NoError(t, err)
		assert.Equal(t, a, same, "idempotent")

		for _, b := range levels {
			ab, err := Combine(a, b)
			require.NoError(t, err)
			ba, err := Combine(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "commutative")
			assert.Equal(t, int(math.Max(float64(a.Severity()), float64(b.Severity()))), ab.Severity())
		}
	}

	got, _ := Combine(models.RiskLow, models.RiskMedium)
	assert.Equal(t, models.RiskMedium, got)
	got, _ = Combine(models.RiskHigh, models.RiskLow)
	assert.Equal(t, models.RiskHigh, got)

	_, err := Combine(models.RiskLow, "severe")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestEvaluateIndividual_Scenario(t *testing.T) {
	p, err := EvaluateIndividual(sampleIndividual())
	require.NoError(t, err)

	assert.Equal(t, 769.58, p.CreditScore)
	assert.GreaterOrEqual(t, p.CreditScore, MinCreditScore)
	assert.LessOrEqual(t, p.CreditScore, MaxCreditScore)
	assert.Equal(t, models.RiskLow, p.RiskLevel)
	assert.Equal(t, Recommendation(ModelCreditScore, models.RiskLow), p.Recommendation)
}

func TestCreditScore_Clamped(t *testing.T) {
	best := models.IndividualFactors{
		MonthlyIncome: 1e6, MonthlyExpenses: 1, CreditAmount: 1,
		CreditHistoryScore: 1, HasCollateral: true, EmploymentYears: 40, Age: 40,
	}
	worst := models.IndividualFactors{
		MonthlyIncome: 1, MonthlyExpenses: 1e6, CreditAmount: 1e9,
		CreditHistoryScore: 0, EmploymentYears: 0, Age: 99,
	}

	hi, err := CreditScore(best)
	require.NoError(t, err)
	lo, err := CreditScore(worst)
	require.NoError(t, err)

	assert.LessOrEqual(t, hi, MaxCreditScore)
	assert.Equal(t, MinCreditScore, lo)
}

func TestCreditScore_Monotonic(t *testing.T) {
	t.Run("non-decreasing in credit history", func(t *testing.T) {
		f := sampleIndividual()
		prev := -1.0
		for h := 0.0; h <= 1.0; h += 0.05 {
			f.CreditHistoryScore = math.Min(h, 1)
			s, err := CreditScore(f)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, s, prev)
			prev = s
		}
	})

	t.Run("non-decreasing in surplus", func(t *testing.T) {
		f := sampleIndividual()
		prev := -1.0
		for exp := 200000.0; exp >= 1000; exp -= 7000 {
			f.MonthlyExpenses = exp
			s, err := CreditScore(f)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, s, prev, "expenses=%v", exp)
			prev = s
		}
	})

	t.Run("non-increasing in credit amount", func(t *testing.T) {
		f := sampleIndividual()
		prev := math.Inf(1)
		for amount := 1000.0; amount <= 5e6; amount *= 1.7 {
			f.CreditAmount = amount
			s, err := CreditScore(f)
			require.NoError(t, err)
			assert.LessOrEqual(t, s, prev, "amount=%v", amount)
			prev = s
		}
	})
}

func TestValidateIndividual_RejectsOutOfDomain(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.IndividualFactors)
		field  string
	}{
		{"age too low", func(f *models.IndividualFactors) { f.Age = 17 }, "age"},
		{"age too high", func(f *models.IndividualFactors) { f.Age = 101 }, "age"},
		{"history above one", func(f *models.IndividualFactors) { f.CreditHistoryScore = 1.01 }, "credit_history_score"},
		{"history negative", func(f *models.IndividualFactors) { f.CreditHistoryScore = -0.1 }, "credit_history_score"},
		{"zero income", func(f *models.IndividualFactors) { f.MonthlyIncome = 0 }, "monthly_income"},
		{"zero expenses", func(f *models.IndividualFactors) { f.MonthlyExpenses = 0 }, "monthly_expenses"},
		{"negative credit", func(f *models.IndividualFactors) { f.CreditAmount = -1 }, "credit_amount"},
		{"negative tenure", func(f *models.IndividualFactors) { f.EmploymentYears = -1 }, "employment_years"},
		{"nan income", func(f *models.IndividualFactors) { f.MonthlyIncome = math.NaN() }, "monthly_income"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sampleIndividual()
			tt.mutate(&f)

			_, err := EvaluateIndividual(f)
			require.Error(t, err)
			stdErr := apperrors.AsStandard(err)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
			require.NotEmpty(t, stdErr.Fields)
			assert.Equal(t, tt.field, stdErr.Fields[0].Field)
		})
	}

	f := sampleIndividual()
	f.Age = 18
	assert.NoError(t, ValidateIndividual(f))
	f.Age = 100
	assert.NoError(t, ValidateIndividual(f))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.1758, Round(1.17575, 4))
	assert.Equal(t, -4.1091, Round(-4.1091125, 4))
	assert.Equal(t, 769.58, Round(769.5833333, 2))
}

func TestEngine_Precision(t *testing.T) {
	e := NewEngine(2, 0)
	p, err := e.EvaluateCompany(sampleCompany())
	require.NoError(t, err)
	assert.Equal(t, -4.11, p.AltmanZScore)
	assert.Equal(t, 1.18, p.TafflerZScore)

	ip, err := e.EvaluateIndividual(sampleIndividual())
	require.NoError(t, err)
	assert.Equal(t, 769.58, ip.CreditScore)
}

func TestEngine_BandsUseRawScores(t *testing.T) {
	t.Run("taffler just above 0.3", func(t *testing.T) {
		// T = 0.13*1 + 0.16*1.0626875 = 0.30003, Z is far into low
		p, err := EvaluateCompany(models.CompanyFinancials{
			CurrentAssets:        1000,
			CurrentLiabilities:   100,
			Liabilities:          1000,
			ShortTermLiabilities: 100,
			TotalAssets:          1000,
			Sales:                1062.6875,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.3, p.TafflerZScore)
		assert.Equal(t, models.RiskLow, p.TafflerRiskLevel)
		assert.Equal(t, models.RiskLow, p.CombinedRiskLevel)
	})

	t.Run("altman just below -0.5", func(t *testing.T) {
		// Z = -0.3877 - 1.0736*0.10463 = -0.500030768
		p, err := EvaluateCompany(models.CompanyFinancials{
			CurrentAssets:        104.63,
			CurrentLiabilities:   1000,
			Liabilities:          1000,
			ShortTermLiabilities: 100,
			TotalAssets:          1000,
			Sales:                3000,
		})
		require.NoError(t, err)
		assert.Equal(t, -0.5, p.AltmanZScore)
		assert.Equal(t, models.RiskLow, p.AltmanRiskLevel)
		assert.Equal(t, models.RiskLow, p.TafflerRiskLevel)
		assert.Equal(t, models.RiskLow, p.CombinedRiskLevel)
	})

	t.Run("credit score just above 700", func(t *testing.T) {
		// 300 + 250 + 150*0.88336 + 30 - 12.5 = 700.004
		p, err := EvaluateIndividual(models.IndividualFactors{
			MonthlyIncome:      1000,
			MonthlyExpenses:    500,
			CreditAmount:       6000,
			CreditHistoryScore: 0.88336,
			Age:                30,
		})
		require.NoError(t, err)
		assert.Equal(t, 700.0, p.CreditScore)
		assert.Equal(t, models.RiskLow, p.RiskLevel)
	})
}

func TestModels_DescribesEveryModel(t *testing.T) {
	infos := Models()
	require.Len(t, infos, 3)
	names := []string{infos[0].Name, infos[1].Name, infos[2].Name}
	assert.Equal(t, []string{"altman", "taffler", "credit_score"}, names)
	for _, info := range infos {
		assert.NotEmpty(t, info.RequiredFields)
		assert.Len(t, info.Bands, 3)
	}
}
