package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

// MemoryRepository keeps assessments in process memory. Writes take the
// exclusive lock, reads take the shared lock and return copies.
type MemoryRepository struct {
	mu          sync.RWMutex
	nextID      atomic.Int64
	companies   []models.CompanyAssessment
	individuals []models.IndividualAssessment
	now         func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepository) InsertCompany(ctx context.Context, a *models.CompanyAssessment) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID.Add(1)
	a.CreatedAt = r.now()
	r.companies = append(r.companies, *a)
	return a.ID, nil
}

func (r *MemoryRepository) InsertIndividual(ctx context.Context, a *models.IndividualAssessment) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID.Add(1)
	a.CreatedAt = r.now()
	r.individuals = append(r.individuals, *a)
	return a.ID, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, kind models.BorrowerKind, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case models.KindCompany:
		for i := range r.companies {
			if r.companies[i].ID == id {
				r.companies = append(r.companies[:i:i], r.companies[i+1:]...)
				return nil
			}
		}
	case models.KindIndividual:
		for i := range r.individuals {
			if r.individuals[i].ID == id {
				r.individuals = append(r.individuals[:i:i], r.individuals[i+1:]...)
				return nil
			}
		}
	default:
		return apperrors.NewFieldError("kind", "must be company or individual")
	}
	return apperrors.NewNotFoundError(string(kind), id)
}

func (r *MemoryRepository) ListCompanies(ctx context.Context, f models.Filter) ([]models.CompanyAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]models.CompanyAssessment, 0, len(r.companies))
	for _, a := range r.companies {
		if f.MatchesName(a.CompanyName) && f.MatchesDate(a.AssessmentDate) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return newestFirst(out[i].AssessmentDate, out[i].ID, out[j].AssessmentDate, out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) ListIndividuals(ctx context.Context, f models.Filter) ([]models.IndividualAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]models.IndividualAssessment, 0, len(r.individuals))
	for _, a := range r.individuals {
		if f.MatchesName(a.FullName) && f.MatchesDate(a.AssessmentDate) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return newestFirst(out[i].AssessmentDate, out[i].ID, out[j].AssessmentDate, out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) CompanyHistory(ctx context.Context, name string) ([]models.CompanyAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []models.CompanyAssessment
	for _, a := range r.companies {
		if a.CompanyName == name {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return oldestFirst(out[i].AssessmentDate, out[i].ID, out[j].AssessmentDate, out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) IndividualHistory(ctx context.Context, name string) ([]models.IndividualAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []models.IndividualAssessment
	for _, a := range r.individuals {
		if a.FullName == name {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return oldestFirst(out[i].AssessmentDate, out[i].ID, out[j].AssessmentDate, out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func newestFirst(di models.Date, idi int64, dj models.Date, idj int64) bool {
	if c := di.Compare(dj); c != 0 {
		return c > 0
	}
	return idi > idj
}

func oldestFirst(di models.Date, idi int64, dj models.Date, idj int64) bool {
	if c := di.Compare(dj); c != 0 {
		return c < 0
	}
	return idi < idj
}
