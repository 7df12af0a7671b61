// Package validation checks raw job and request payloads against the JSON
// schemas embedded in the binary before they are decoded.
package validation

import (
	"embed"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names.
const (
	SchemaCompanyPrediction    = "company_prediction"
	SchemaIndividualPrediction = "individual_prediction"
	SchemaListAssessments      = "list_assessments"
	SchemaAssessmentHistory    = "assessment_history"
	SchemaDeleteAssessment     = "delete_assessment"
	SchemaPreferences          = "preferences"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var activityIDPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

// Validator holds the compiled schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = schema
	}
	return v, nil
}

// MustNewValidator panics if an embedded schema does not compile.
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Names lists the compiled schemas in sorted order.
func (v *Validator) Names() []string {
	names := make([]string, 0, len(v.schemas))
	for n := range v.schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks a raw JSON document. Violations come back as a
// VALIDATION_FAILED error with one FieldViolation per problem.
func (v *Validator) Validate(schemaName string, document []byte) error {
	return v.validate(schemaName, gojsonschema.NewBytesLoader(document))
}

// ValidateValue checks an already decoded value, e.g. a job variables map.
func (v *Validator) ValidateValue(schemaName string, value interface{}) error {
	return v.validate(schemaName, gojsonschema.NewGoLoader(value))
}

func (v *Validator) validate(schemaName string, doc gojsonschema.JSONLoader) error {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return apperrors.NewValidationError("malformed JSON payload",
			apperrors.FieldViolation{Field: "(root)", Message: err.Error()})
	}
	if result.Valid() {
		return nil
	}

	fields := make([]apperrors.FieldViolation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, apperrors.FieldViolation{
			Field:   fieldName(desc),
			Message: desc.Description(),
		})
	}
	return apperrors.NewValidationError("payload does not match schema "+schemaName, fields...)
}

// fieldName points required-property errors at the missing property rather
// than at its parent object.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if p, ok := desc.Details()["property"].(string); ok {
			if desc.Field() == "(root)" {
				return p
			}
			return desc.Field() + "." + p
		}
	}
	return desc.Field()
}

// CompileSchema compiles an arbitrary schema document; the registry tooling
// uses it to check activity definitions.
func CompileSchema(schema interface{}) error {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
		return fmt.Errorf("invalid JSON schema: %w", err)
	}
	return nil
}

// ValidateActivityNaming validates activity ID follows naming convention
func ValidateActivityNaming(activityID string) error {
	if !activityIDPattern.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., risk.company.predict)")
	}
	return nil
}
