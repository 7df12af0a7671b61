// internal/api/assessments.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/query"
	"credit-risk-workers/internal/service"

	"github.com/gin-gonic/gin"
)

type assessmentController struct {
	svc       AssessmentService
	prefs     PreferenceStore
	validator *validation.Validator
	logger    logger.Logger
	version   string
}

type companyPredictRequest struct {
	service.CompanyRequest
	SessionID string `json:"session_id"`
}

type individualPredictRequest struct {
	service.IndividualRequest
	SessionID string `json:"session_id"`
}

// Health
// GET /api/health
func (a *assessmentController) Health(c *gin.Context) {
	status, message, code := "healthy", "credit risk service is running", http.StatusOK
	if err := a.svc.Ping(c.Request.Context()); err != nil {
		status, message, code = "degraded", "assessment storage unreachable", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"message":   message,
		"version":   a.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/model-info
func (a *assessmentController) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": a.svc.ModelInfo()})
}

// PredictCompany scores and stores one company.
// POST /api/predict
func (a *assessmentController) PredictCompany(c *gin.Context) {
	var req companyPredictRequest
	if err := a.bind(c, validation.SchemaCompanyPrediction, &req); err != nil {
		writeError(c, err)
		return
	}

	res, err := a.svc.PredictCompany(c.Request.Context(), req.CompanyRequest)
	if err != nil {
		writeError(c, err)
		return
	}

	a.remember(c, req.SessionID, preferences.PredictionEntry{
		Kind:           models.KindCompany,
		AssessmentID:   res.ID,
		Name:           res.CompanyName,
		RiskLevel:      res.CombinedRiskLevel,
		AssessmentDate: res.AssessmentDate,
	})
	c.JSON(http.StatusOK, res)
}

// POST /api/predict/individual
func (a *assessmentController) PredictIndividual(c *gin.Context) {
	var req individualPredictRequest
	if err := a.bind(c, validation.SchemaIndividualPrediction, &req); err != nil {
		writeError(c, err)
		return
	}

	res, err := a.svc.PredictIndividual(c.Request.Context(), req.IndividualRequest)
	if err != nil {
		writeError(c, err)
		return
	}

	a.remember(c, req.SessionID, preferences.PredictionEntry{
		Kind:           models.KindIndividual,
		AssessmentID:   res.ID,
		Name:           res.FullName,
		RiskLevel:      res.RiskLevel,
		AssessmentDate: res.AssessmentDate,
	})
	c.JSON(http.StatusOK, res)
}

// ListCompanies returns the filtered, optionally sorted company listing.
// GET /api/statistics/companies?name=&start_date=&end_date=&sort=&order=&session=
func (a *assessmentController) ListCompanies(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if q, err = sessionSort(a, c, models.KindCompany, query.CompanyComparators, q); err != nil {
		writeError(c, err)
		return
	}

	stats, err := a.svc.ListCompanyAssessments(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/statistics/individuals
func (a *assessmentController) ListIndividuals(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if q, err = sessionSort(a, c, models.KindIndividual, query.IndividualComparators, q); err != nil {
		writeError(c, err)
		return
	}

	stats, err := a.svc.ListIndividualAssessments(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/history/company/:name
func (a *assessmentController) CompanyHistory(c *gin.Context) {
	hist, err := a.svc.CompanyHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// GET /api/history/individual/:name
func (a *assessmentController) IndividualHistory(c *gin.Context) {
	hist, err := a.svc.IndividualHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// DELETE /api/statistics/companies/:id
func (a *assessmentController) DeleteCompany(c *gin.Context) {
	id, err := parseID(c)
	if err == nil {
		err = a.svc.DeleteCompanyAssessment(c.Request.Context(), id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

// DELETE /api/statistics/individuals/:id
func (a *assessmentController) DeleteIndividual(c *gin.Context) {
	id, err := parseID(c)
	if err == nil {
		err = a.svc.DeleteIndividualAssessment(c.Request.Context(), id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

// Search suggests assessed names.
// GET /api/search?q=ac&kind=company&size=5
func (a *assessmentController) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(c, apperrors.NewFieldError("size", "must be an integer between 1 and 100"))
			return
		}
		size = n
	}

	names, err := a.svc.SuggestNames(c.Request.Context(), c.Query("q"), models.BorrowerKind(c.Query("kind")), size)
	if err != nil {
		writeError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": names})
}

// bind validates the raw body against a schema before decoding it.
func (a *assessmentController) bind(c *gin.Context, schema string, dst interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("read body: %v", err))
	}
	if err := a.validator.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("parse body: %v", err))
	}
	return nil
}

func (a *assessmentController) remember(c *gin.Context, session string, entry preferences.PredictionEntry) {
	if a.prefs == nil || session == "" {
		return
	}
	if err := a.prefs.RecordPrediction(c.Request.Context(), session, entry); err != nil {
		a.logger.Warn("prediction not recorded in session", map[string]interface{}{
			"session": session,
			"error":   err,
		})
	}
}

func parseQuery(c *gin.Context) (query.Query, error) {
	q := query.Query{
		Filter: models.Filter{Name: strings.TrimSpace(c.Query("name"))},
		Sort:   models.ParseSortKey(c.Query("sort")),
	}

	for _, p := range []struct {
		field string
		dst   *models.Date
	}{
		{"start_date", &q.Filter.StartDate},
		{"end_date", &q.Filter.EndDate},
	} {
		raw := strings.TrimSpace(c.Query(p.field))
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return q, apperrors.NewInvalidDateError(p.field, err.Error())
		}
		*p.dst = d
	}

	order, ok := models.ParseDirection(c.Query("order"))
	if !ok {
		return q, apperrors.NewFieldError("order", "must be asc or desc")
	}
	q.Order = order
	return q, nil
}

// sessionSort applies the click-to-toggle rule when a session asks for a sort
// key without an explicit order, and remembers the result.
func sessionSort[T any](a *assessmentController, c *gin.Context, kind models.BorrowerKind, cmps query.Comparators[T], q query.Query) (query.Query, error) {
	session := c.Query("session")
	if a.prefs == nil || session == "" || q.Sort == "" || c.Query("order") != "" {
		return q, nil
	}

	var st query.SortState
	_, err := a.prefs.Update(c.Request.Context(), session, func(p *preferences.Preferences) error {
		sorter := query.NewSorter(cmps)
		sorter.Restore(p.SortState(kind))
		next, err := sorter.Select(q.Sort)
		if err != nil {
			return err
		}
		st = next
		p.SetSortState(kind, next)
		return nil
	})
	switch {
	case err == nil:
		q.Sort, q.Order = st.Key, st.Direction
	case apperrors.HasCode(err, apperrors.ErrCodeInvalidSortKey):
		return q, err
	default:
		a.logger.Warn("session sort state unavailable", map[string]interface{}{"session": session, "error": err})
	}
	return q, nil
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewFieldError("id", "must be a positive integer")
	}
	return id, nil
}
