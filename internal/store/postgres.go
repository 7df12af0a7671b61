package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

const companyColumns = `id, company_name, assessment_date,
	current_assets, current_liabilities, debt_capital, liabilities, sales_profit,
	short_term_liabilities, long_term_liabilities, total_assets, sales,
	altman_z_score, altman_risk_level, altman_recommendation,
	taffler_z_score, taffler_risk_level, taffler_recommendation,
	combined_risk_level, combined_recommendation, created_at`

const individualColumns = `id, full_name, assessment_date,
	monthly_income, monthly_expenses, credit_amount, credit_history_score,
	has_collateral, employment_years, age,
	credit_score, risk_level, recommendation, created_at`

const insertCompanySQL = `
	INSERT INTO company_assessments (
		company_name, assessment_date,
		current_assets, current_liabilities, debt_capital, liabilities, sales_profit,
		short_term_liabilities, long_term_liabilities, total_assets, sales,
		altman_z_score, altman_risk_level, altman_recommendation,
		taffler_z_score, taffler_risk_level, taffler_recommendation,
		combined_risk_level, combined_recommendation
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING id, created_at`

const insertIndividualSQL = `
	INSERT INTO individual_assessments (
		full_name, assessment_date,
		monthly_income, monthly_expenses, credit_amount, credit_history_score,
		has_collateral, employment_years, age,
		credit_score, risk_level, recommendation
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at`

// PostgresRepository stores assessments in two tables. Every write runs in
// its own transaction, so a failed insert or delete leaves nothing behind.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertCompany(ctx context.Context, a *models.CompanyAssessment) (int64, error) {
	err := r.inTx(ctx, "insert company assessment", func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, insertCompanySQL,
			a.CompanyName, a.AssessmentDate,
			a.CurrentAssets, a.CurrentLiabilities, a.DebtCapital, a.Liabilities, a.SalesProfit,
			a.ShortTermLiabilities, a.LongTermLiabilities, a.TotalAssets, a.Sales,
			a.AltmanZScore, string(a.AltmanRiskLevel), a.AltmanRecommendation,
			a.TafflerZScore, string(a.TafflerRiskLevel), a.TafflerRecommendation,
			string(a.CombinedRiskLevel), a.CombinedRecommendation,
		).Scan(&a.ID, &a.CreatedAt)
	})
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *PostgresRepository) InsertIndividual(ctx context.Context, a *models.IndividualAssessment) (int64, error) {
	err := r.inTx(ctx, "insert individual assessment", func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, insertIndividualSQL,
			a.FullName, a.AssessmentDate,
			a.MonthlyIncome, a.MonthlyExpenses, a.CreditAmount, a.CreditHistoryScore,
			a.HasCollateral, a.EmploymentYears, a.Age,
			a.CreditScore, string(a.RiskLevel), a.Recommendation,
		).Scan(&a.ID, &a.CreatedAt)
	})
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind models.BorrowerKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	var affected int64
	err = r.inTx(ctx, "delete "+string(kind)+" assessment", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(string(kind), id)
	}
	return nil
}

func (r *PostgresRepository) ListCompanies(ctx context.Context, f models.Filter) ([]models.CompanyAssessment, error) {
	where, args := filterClause("company_name", f)
	query := fmt.Sprintf("SELECT %s FROM company_assessments%s ORDER BY assessment_date DESC, id DESC", companyColumns, where)
	return r.queryCompanies(ctx, "list company assessments", query, args...)
}

func (r *PostgresRepository) ListIndividuals(ctx context.Context, f models.Filter) ([]models.IndividualAssessment, error) {
	where, args := filterClause("full_name", f)
	query := fmt.Sprintf("SELECT %s FROM individual_assessments%s ORDER BY assessment_date DESC, id DESC", individualColumns, where)
	return r.queryIndividuals(ctx, "list individual assessments", query, args...)
}

func (r *PostgresRepository) CompanyHistory(ctx context.Context, name string) ([]models.CompanyAssessment, error) {
	query := fmt.Sprintf("SELECT %s FROM company_assessments WHERE company_name = $1 ORDER BY assessment_date ASC, id ASC", companyColumns)
	return r.queryCompanies(ctx, "company history", query, name)
}

func (r *PostgresRepository) IndividualHistory(ctx context.Context, name string) ([]models.IndividualAssessment, error) {
	query := fmt.Sprintf("SELECT %s FROM individual_assessments WHERE full_name = $1 ORDER BY assessment_date ASC, id ASC", individualColumns)
	return r.queryIndividuals(ctx, "individual history", query, name)
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("ping", err)
	}
	return nil
}

func (r *PostgresRepository) queryCompanies(ctx context.Context, op, query string, args ...interface{}) ([]models.CompanyAssessment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []models.CompanyAssessment{}
	for rows.Next() {
		var a models.CompanyAssessment
		var altman, taffler, combined string
		if err := rows.Scan(
			&a.ID, &a.CompanyName, &a.AssessmentDate,
			&a.CurrentAssets, &a.CurrentLiabilities, &a.DebtCapital, &a.Liabilities, &a.SalesProfit,
			&a.ShortTermLiabilities, &a.LongTermLiabilities, &a.TotalAssets, &a.Sales,
			&a.AltmanZScore, &altman, &a.AltmanRecommendation,
			&a.TafflerZScore, &taffler, &a.TafflerRecommendation,
			&combined, &a.CombinedRecommendation, &a.CreatedAt,
		); err != nil {
			return nil, storageErr(op, err)
		}
		a.AltmanRiskLevel = models.RiskLevel(altman)
		a.TafflerRiskLevel = models.RiskLevel(taffler)
		a.CombinedRiskLevel = models.RiskLevel(combined)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

func (r *PostgresRepository) queryIndividuals(ctx context.Context, op, query string, args ...interface{}) ([]models.IndividualAssessment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []models.IndividualAssessment{}
	for rows.Next() {
		var a models.IndividualAssessment
		var level string
		if err := rows.Scan(
			&a.ID, &a.FullName, &a.AssessmentDate,
			&a.MonthlyIncome, &a.MonthlyExpenses, &a.CreditAmount, &a.CreditHistoryScore,
			&a.HasCollateral, &a.EmploymentYears, &a.Age,
			&a.CreditScore, &level, &a.Recommendation, &a.CreatedAt,
		); err != nil {
			return nil, storageErr(op, err)
		}
		a.RiskLevel = models.RiskLevel(level)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

func (r *PostgresRepository) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return storageErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr(op, err)
	}
	return nil
}

// filterClause builds the WHERE part for a listing. The name filter is a
// case-insensitive substring match with LIKE wildcards escaped.
func filterClause(nameColumn string, f models.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", nameColumn, len(args)))
	}
	if !f.StartDate.IsZero() {
		args = append(args, f.StartDate)
		conds = append(conds, fmt.Sprintf("assessment_date >= $%d", len(args)))
	}
	if !f.EndDate.IsZero() {
		args = append(args, f.EndDate)
		conds = append(conds, fmt.Sprintf("assessment_date <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func tableFor(kind models.BorrowerKind) (string, error) {
	switch kind {
	case models.KindCompany:
		return "company_assessments", nil
	case models.KindIndividual:
		return "individual_assessments", nil
	default:
		return "", apperrors.NewFieldError("kind", "must be company or individual")
	}
}

// storageErr keeps caller cancellation distinguishable from an outage.
func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperrors.NewStorageError(op, err)
}
