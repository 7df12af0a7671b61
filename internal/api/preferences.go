// internal/api/preferences.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/preferences"

	"github.com/gin-gonic/gin"
)

type preferencesController struct {
	store     PreferenceStore
	validator *validation.Validator
}

// GET /api/preferences/:session
func (p *preferencesController) Get(c *gin.Context) {
	if p.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errorBody{Code: "PREFERENCES_DISABLED", Message: "preference storage is not configured"}})
		return
	}
	prefs, err := p.store.Load(c.Request.Context(), c.Param("session"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Put replaces the stored preferences; omitted fields fall back to defaults.
// PUT /api/preferences/:session
func (p *preferencesController) Put(c *gin.Context) {
	if p.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errorBody{Code: "PREFERENCES_DISABLED", Message: "preference storage is not configured"}})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		writeError(c, apperrors.NewValidationError(fmt.Sprintf("read body: %v", err)))
		return
	}
	if err := p.validator.Validate(validation.SchemaPreferences, body); err != nil {
		writeError(c, err)
		return
	}

	prefs := preferences.Default()
	if err := json.Unmarshal(body, &prefs); err != nil {
		writeError(c, apperrors.NewValidationError(fmt.Sprintf("parse body: %v", err)))
		return
	}
	if err := p.store.Save(c.Request.Context(), c.Param("session"), prefs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
