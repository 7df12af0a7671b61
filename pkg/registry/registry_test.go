// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActivity(id, taskType string) Activity {
	return Activity{
		ID:                   id,
		DisplayName:          "Predict Company Risk",
		Category:             "risk",
		TaskType:             taskType,
		ImplementationStatus: StatusCompleted,
		Timeout:              "10s",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"company_name"},
		},
	}
}

func TestRegistry_AddSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	reg, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.NoError(t, reg.Add(testActivity("risk.company.predict", "predict-company-risk")))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 1)
	assert.NotEmpty(t, loaded.LastUpdated)

	a, ok := loaded.FindByTaskType("predict-company-risk")
	require.True(t, ok)
	assert.Equal(t, "risk.company.predict", a.ID)
	assert.NoError(t, loaded.Validate())
}

func TestRegistry_AddRejects(t *testing.T) {
	reg := &ActivityRegistry{}
	require.NoError(t, reg.Add(testActivity("risk.company.predict", "predict-company-risk")))

	assert.Error(t, reg.Add(testActivity("risk.company.predict", "other")), "duplicate id")
	assert.Error(t, reg.Add(testActivity("predict-company-risk", "other")), "id must be domain.subdomain.action")
}

func TestRegistry_Update(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{testActivity("risk.company.predict", "predict-company-risk")}}

	require.NoError(t, reg.Update("risk.company.predict", "retries", "3"))
	require.NoError(t, reg.Update("risk.company.predict", "status", StatusVerified))
	a, _ := reg.Find("risk.company.predict")
	assert.Equal(t, 3, a.Retries)
	assert.Equal(t, StatusVerified, a.ImplementationStatus)

	assert.Error(t, reg.Update("risk.company.predict", "status", "shipped"))
	assert.Error(t, reg.Update("risk.company.predict", "timeout", "soon"))
	assert.Error(t, reg.Update("risk.company.predict", "color", "red"))
	assert.Error(t, reg.Update("risk.nothing.here", "status", StatusPlanned))
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ActivityRegistry)
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }},
		{"duplicate task type", func(r *ActivityRegistry) {
			r.Activities = append(r.Activities, testActivity("risk.company.rescore", "predict-company-risk"))
		}},
		{"bad schema", func(r *ActivityRegistry) { r.Activities[0].InputSchema["type"] = "banana" }},
		{"bad name", func(r *ActivityRegistry) { r.Activities[0].ID = "Risk.Company" }},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "ten" }},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{testActivity("risk.company.predict", "predict-company-risk")}}
			tt.mutate(reg)
			assert.Error(t, reg.Validate())
		})
	}
}

func TestRegistry_ShippedFileIsValid(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"predict-company-risk",
		"predict-individual-risk",
		"list-assessments",
		"get-assessment-history",
		"delete-assessment",
	} {
		_, ok := reg.FindByTaskType(taskType)
		assert.True(t, ok, taskType)
	}
}
