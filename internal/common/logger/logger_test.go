package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "predict-company-risk"})

	log.WithError(errors.New("db down")).Error("insert failed", map[string]interface{}{"company": "Acme"})
	log.Info("done", map[string]interface{}{"cause": errors.New("none")})

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "predict-company-risk", first["taskType"])
	assert.Equal(t, "Acme", first["company"])
	assert.Equal(t, "db down", first["error"])

	second := entries[1].ContextMap()
	assert.Equal(t, "none", second["cause"])
}

func TestBuild_BadOutputPathFallsBack(t *testing.T) {
	l := Build(Options{Level: "info", Format: "json", OutputPath: "/nonexistent/dir/app.log"})
	assert.NotNil(t, l)
}

func TestNewFromOptions_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.log")
	NewFromOptions(Options{Level: "warn", Format: "json", OutputPath: path}).
		WithFields(map[string]interface{}{"taskType": "list-assessments"}).
		Warn("slow listing", nil)

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"slow listing"`)
	assert.Contains(t, string(raw), `"taskType":"list-assessments"`)
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Info("ignored", nil)
	NewTestLogger(t).Debug("visible in -v", map[string]interface{}{"k": 1})
}
