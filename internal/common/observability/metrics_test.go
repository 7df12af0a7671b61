package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("credit-risk-test", reg)
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "PredictCompany")
	o.RecordOperation(ctx, "PredictCompany", "ok")
	o.RecordJobProcessed(ctx, "predict-company-risk", "completed")
	o.RecordJobDuration(ctx, "predict-company-risk", 15*time.Millisecond, "completed")
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "risk_operations")
	assert.Contains(t, joined, "jobs_processed")
}

func TestObservability_NilAndNoopAreSafe(t *testing.T) {
	var nilObs *Observability
	_, span := nilObs.StartSpan(context.Background(), "x")
	span.End()
	nilObs.RecordOperation(context.Background(), "x", "ok")
	nilObs.Shutdown()

	o := NewNoop()
	_, span = o.StartSpan(context.Background(), "y")
	span.End()
	o.RecordJobProcessed(context.Background(), "t", "failed")
	o.Shutdown()
}
