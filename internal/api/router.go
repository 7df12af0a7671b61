// internal/api/router.go
package api

import (
	"context"
	"net/http"

	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/query"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/service"

	"github.com/gin-gonic/gin"
)

// AssessmentService is what the REST layer needs from the service facade.
type AssessmentService interface {
	PredictCompany(ctx context.Context, req service.CompanyRequest) (*service.CompanyResult, error)
	PredictIndividual(ctx context.Context, req service.IndividualRequest) (*service.IndividualResult, error)
	ListCompanyAssessments(ctx context.Context, q query.Query) (*query.Statistics[models.CompanySummary], error)
	ListIndividualAssessments(ctx context.Context, q query.Query) (*query.Statistics[models.IndividualSummary], error)
	CompanyHistory(ctx context.Context, companyName string) (*query.CompanyHistory, error)
	IndividualHistory(ctx context.Context, fullName string) (*query.IndividualHistory, error)
	DeleteCompanyAssessment(ctx context.Context, id int64) error
	DeleteIndividualAssessment(ctx context.Context, id int64) error
	ModelInfo() []scoring.ModelInfo
	SuggestNames(ctx context.Context, prefix string, kind models.BorrowerKind, size int) ([]string, error)
	Ping(ctx context.Context) error
}

// PreferenceStore persists per-session UI state.
type PreferenceStore interface {
	Load(ctx context.Context, session string) (preferences.Preferences, error)
	Save(ctx context.Context, session string, prefs preferences.Preferences) error
	Update(ctx context.Context, session string, fn func(*preferences.Preferences) error) (preferences.Preferences, error)
	RecordPrediction(ctx context.Context, session string, entry preferences.PredictionEntry) error
}

// RouterDeps wires the router. Preferences may be nil, in which case the
// preferences routes answer 503 and session features are skipped.
type RouterDeps struct {
	Service     AssessmentService
	Preferences PreferenceStore
	Validator   *validation.Validator
	Logger      logger.Logger
	Version     string
}

// NewRouter builds the /api route tree.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(deps.Logger), requestMetrics())

	a := &assessmentController{
		svc:       deps.Service,
		prefs:     deps.Preferences,
		validator: deps.Validator,
		logger:    deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
		version:   deps.Version,
	}
	p := &preferencesController{store: deps.Preferences, validator: deps.Validator}

	api := r.Group("/api")
	{
		api.GET("/health", a.Health)
		api.GET("/model-info", a.ModelInfo)

		api.POST("/predict", a.PredictCompany)
		api.POST("/predict/individual", a.PredictIndividual)

		api.GET("/statistics/companies", a.ListCompanies)
		api.GET("/statistics/individuals", a.ListIndividuals)
		api.DELETE("/statistics/companies/:id", a.DeleteCompany)
		api.DELETE("/statistics/individuals/:id", a.DeleteIndividual)

		api.GET("/history/company/:name", a.CompanyHistory)
		api.GET("/history/individual/:name", a.IndividualHistory)

		api.GET("/search", a.Search)

		api.GET("/preferences/:session", p.Get)
		api.PUT("/preferences/:session", p.Put)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "ROUTE_NOT_FOUND", "message": "no such route"}})
	})
	return r
}
