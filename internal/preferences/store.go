// internal/preferences/store.go
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"credit-risk-workers/internal/common/config"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/query"

	"github.com/redis/go-redis/v9"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	// MaxRecentPredictions caps the cached prediction history per session.
	MaxRecentPredictions = 20

	defaultKeyPrefix = "risk:prefs:"

	maxUpdateAttempts = 16
	defaultTTL        = 30 * 24 * time.Hour
)

// PredictionEntry is a short reference to an assessment made in a session.
type PredictionEntry struct {
	Kind           models.BorrowerKind `json:"kind"`
	AssessmentID   int64               `json:"assessment_id"`
	Name           string              `json:"name"`
	RiskLevel      models.RiskLevel    `json:"risk_level"`
	AssessmentDate models.Date         `json:"assessment_date"`
}

// Preferences is the per-session UI state.
type Preferences struct {
	Theme             string                                  `json:"theme"`
	Sort              map[models.BorrowerKind]query.SortState `json:"sort,omitempty"`
	RecentPredictions []PredictionEntry                       `json:"recent_predictions,omitempty"`
}

func Default() Preferences {
	return Preferences{Theme: ThemeLight}
}

// SortState returns the remembered sort for a listing kind, if any.
func (p Preferences) SortState(kind models.BorrowerKind) query.SortState {
	if p.Sort == nil {
		return query.SortState{}
	}
	return p.Sort[kind]
}

func (p *Preferences) SetSortState(kind models.BorrowerKind, st query.SortState) {
	if p.Sort == nil {
		p.Sort = make(map[models.BorrowerKind]query.SortState)
	}
	p.Sort[kind] = st
}

func (p Preferences) Validate() error {
	var fields []apperrors.FieldViolation
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		fields = append(fields, apperrors.FieldViolation{Field: "theme", Message: "must be light or dark"})
	}
	for kind := range p.Sort {
		if !kind.Valid() {
			fields = append(fields, apperrors.FieldViolation{Field: "sort", Message: fmt.Sprintf("unknown kind %q", kind)})
		}
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid preferences", fields...)
	}
	return nil
}

// Store keeps preferences in Redis, one JSON value per session with a
// sliding TTL refreshed on every save.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, cfg config.PreferencesConfig) *Store {
	s := &Store{client: client, prefix: cfg.KeyPrefix, ttl: time.Duration(cfg.TTL) * time.Second}
	if s.prefix == "" {
		s.prefix = defaultKeyPrefix
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	return s
}

func (s *Store) key(session string) string {
	return s.prefix + session
}

// Load returns the defaults when nothing is stored for the session.
func (s *Store) Load(ctx context.Context, session string) (Preferences, error) {
	if session == "" {
		return Preferences{}, apperrors.NewFieldError("session", "required")
	}
	return decode(s.client.Get(ctx, s.key(session)).Bytes())
}

func (s *Store) Save(ctx context.Context, session string, prefs Preferences) error {
	if session == "" {
		return apperrors.NewFieldError("session", "required")
	}
	data, err := encode(prefs)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(session), data, s.ttl).Err(); err != nil {
		return apperrors.NewStorageError("save preferences", err)
	}
	return nil
}

// Update runs fn on the stored preferences and writes the result back under
// WATCH. A concurrent write to the same session restarts the cycle, so no
// update is lost. Errors returned by fn abort without writing.
func (s *Store) Update(ctx context.Context, session string, fn func(*Preferences) error) (Preferences, error) {
	if session == "" {
		return Preferences{}, apperrors.NewFieldError("session", "required")
	}
	key := s.key(session)

	var updated Preferences
	txf := func(tx *redis.Tx) error {
		prefs, err := decode(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		if err := fn(&prefs); err != nil {
			return err
		}
		data, err := encode(prefs)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			updated = prefs
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.As(err, new(*apperrors.StandardError)):
			return Preferences{}, err
		default:
			return Preferences{}, apperrors.NewStorageError("update preferences", err)
		}
	}
	return Preferences{}, apperrors.NewStorageError("update preferences", redis.TxFailedErr)
}

// RecordPrediction prepends an entry to the session's prediction history.
func (s *Store) RecordPrediction(ctx context.Context, session string, entry PredictionEntry) error {
	_, err := s.Update(ctx, session, func(p *Preferences) error {
		p.RecentPredictions = append([]PredictionEntry{entry}, p.RecentPredictions...)
		return nil
	})
	return err
}

func (s *Store) Delete(ctx context.Context, session string) error {
	if err := s.client.Del(ctx, s.key(session)).Err(); err != nil {
		return apperrors.NewStorageError("delete preferences", err)
	}
	return nil
}

func decode(raw []byte, err error) (Preferences, error) {
	if errors.Is(err, redis.Nil) {
		return Default(), nil
	}
	if err != nil {
		return Preferences{}, apperrors.NewStorageError("load preferences", err)
	}
	prefs := Default()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return Default(), nil
	}
	return prefs, nil
}

func encode(prefs Preferences) ([]byte, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if len(prefs.RecentPredictions) > MaxRecentPredictions {
		prefs.RecentPredictions = prefs.RecentPredictions[:MaxRecentPredictions]
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return data, nil
}
