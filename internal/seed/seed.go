// Package seed generates demo assessments through the regular scoring path.
package seed

import (
	"context"
	"math/rand"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/service"
)

// CompanyProfile holds the baseline figures a demo company is generated
// around, in millions.
type CompanyProfile struct {
	Name             string
	TotalAssets      float64
	LiabilitiesRatio float64
	SalesRatio       float64
	ProfitRatio      float64
}

var DemoCompanies = []CompanyProfile{
	{Name: "BelAZ OJSC", TotalAssets: 2500, LiabilitiesRatio: 0.45, SalesRatio: 1.45, ProfitRatio: 0.14},
	{Name: "MTZ OJSC", TotalAssets: 3200, LiabilitiesRatio: 0.50, SalesRatio: 0.90, ProfitRatio: 0.076},
	{Name: "Grodno Azot OJSC", TotalAssets: 1800, LiabilitiesRatio: 0.55, SalesRatio: 1.1, ProfitRatio: 0.10},
	{Name: "Belshina OJSC", TotalAssets: 1500, LiabilitiesRatio: 0.48, SalesRatio: 1.15, ProfitRatio: 0.11},
	{Name: "Minsk Tractor Works OJSC", TotalAssets: 2800, LiabilitiesRatio: 0.47, SalesRatio: 1.25, ProfitRatio: 0.13},
	{Name: "Naftan OJSC", TotalAssets: 4200, LiabilitiesRatio: 0.58, SalesRatio: 1.5, ProfitRatio: 0.08},
	{Name: "Beltelecom OJSC", TotalAssets: 3800, LiabilitiesRatio: 0.46, SalesRatio: 1.2, ProfitRatio: 0.15},
	{Name: "Priorbank OJSC", TotalAssets: 8670, LiabilitiesRatio: 0.88, SalesRatio: 0.15, ProfitRatio: 0.056},
}

var DemoIndividuals = []string{
	"Ivan Ivanov",
	"Petr Petrov",
	"Sidor Sidorov",
	"Anna Kozlova",
	"Dmitry Novikov",
	"Elena Morozova",
	"Andrei Volkov",
	"Maria Sokolova",
}

// Predictor is the part of the service the seeder drives.
type Predictor interface {
	PredictCompany(ctx context.Context, req service.CompanyRequest) (*service.CompanyResult, error)
	PredictIndividual(ctx context.Context, req service.IndividualRequest) (*service.IndividualResult, error)
}

type Options struct {
	Months int
	Seed   int64
	// End is the last day of the seeded window; zero means today.
	End models.Date
}

type Summary struct {
	Companies   int `json:"companies"`
	Individuals int `json:"individuals"`
	Skipped     int `json:"skipped"`
}

type Seeder struct {
	svc    Predictor
	rng    *rand.Rand
	opts   Options
	logger logger.Logger
}

func New(svc Predictor, opts Options, log logger.Logger) *Seeder {
	if opts.Months <= 0 {
		opts.Months = 6
	}
	if opts.End.IsZero() {
		opts.End = models.Today()
	}
	return &Seeder{
		svc:    svc,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"component": "seeder"}),
	}
}

// Run creates one assessment per borrower per month. Submissions the scoring
// engine rejects are skipped; a storage failure aborts the run.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	start := s.opts.End.AddDays(-30 * s.opts.Months)

	for _, p := range DemoCompanies {
		trend := s.uniform(0.95, 1.08)
		for m := 0; m < s.opts.Months; m++ {
			req := service.CompanyRequest{
				CompanyName:       p.Name,
				AssessmentDate:    s.dateFor(start, m),
				CompanyFinancials: s.companyFinancials(p, trend),
			}
			_, err := s.svc.PredictCompany(ctx, req)
			if skip, err := s.handle(err, p.Name); err != nil {
				return sum, err
			} else if skip {
				sum.Skipped++
			} else {
				sum.Companies++
			}
			trend *= s.uniform(0.99, 1.01)
		}
	}

	for _, name := range DemoIndividuals {
		trend := s.uniform(0.97, 1.05)
		for m := 0; m < s.opts.Months; m++ {
			req := service.IndividualRequest{
				FullName:          name,
				AssessmentDate:    s.dateFor(start, m),
				IndividualFactors: s.individualFactors(trend),
			}
			_, err := s.svc.PredictIndividual(ctx, req)
			if skip, err := s.handle(err, name); err != nil {
				return sum, err
			} else if skip {
				sum.Skipped++
			} else {
				sum.Individuals++
			}
			trend *= s.uniform(0.99, 1.01)
		}
	}

	s.logger.Info("seeding finished", map[string]interface{}{
		"companies":   sum.Companies,
		"individuals": sum.Individuals,
		"skipped":     sum.Skipped,
	})
	return sum, nil
}

func (s *Seeder) handle(err error, name string) (skip bool, fatal error) {
	if err == nil {
		return false, nil
	}
	std := apperrors.AsStandard(err)
	if std.Retryable || std.Code == apperrors.ErrCodeInternal {
		return false, err
	}
	s.logger.Warn("demo submission rejected", map[string]interface{}{"name": name, "error": err})
	return true, nil
}

// dateFor spreads assessments roughly a month apart with a few days of jitter,
// never past the window end.
func (s *Seeder) dateFor(start models.Date, month int) models.Date {
	d := start.AddDays(month*30 + s.rng.Intn(7) - 3)
	if d.After(s.opts.End) {
		return s.opts.End
	}
	return d
}

func (s *Seeder) companyFinancials(p CompanyProfile, trend float64) models.CompanyFinancials {
	totalAssets := p.TotalAssets * trend * s.uniform(0.97, 1.03)
	liabilities := totalAssets * p.LiabilitiesRatio * s.uniform(0.98, 1.02)

	liquidity := s.uniform(0.25, 0.65)
	currentShare := s.uniform(0.55, 0.70)
	currentLiabilities := liabilities * currentShare
	currentAssets := currentLiabilities * liquidity
	if limit := totalAssets * 0.45; currentAssets > limit {
		currentAssets = limit
		currentLiabilities = currentAssets / liquidity
	}

	return models.CompanyFinancials{
		CurrentAssets:        currentAssets,
		CurrentLiabilities:   currentLiabilities,
		DebtCapital:          liabilities * s.uniform(0.65, 0.80),
		Liabilities:          liabilities,
		SalesProfit:          p.TotalAssets * p.ProfitRatio * trend,
		ShortTermLiabilities: currentLiabilities,
		LongTermLiabilities:  liabilities * (1 - currentShare),
		TotalAssets:          totalAssets,
		Sales:                p.TotalAssets * p.SalesRatio * trend,
	}
}

func (s *Seeder) individualFactors(trend float64) models.IndividualFactors {
	income := s.uniform(50000, 300000) * trend
	return models.IndividualFactors{
		MonthlyIncome:      income,
		MonthlyExpenses:    income * s.uniform(0.55, 0.75),
		CreditAmount:       income * s.uniform(4, 10),
		CreditHistoryScore: s.uniform(0.4, 0.95),
		HasCollateral:      s.rng.Intn(2) == 1,
		EmploymentYears:    s.uniform(2, 18),
		Age:                28 + s.rng.Intn(33),
	}
}

func (s *Seeder) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
