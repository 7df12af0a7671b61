package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	before := testutil.ToFloat64(AssessmentsCreated.WithLabelValues("company", "high"))
	Recorder{}.AssessmentCreated("company", "high")
	assert.Equal(t, before+1, testutil.ToFloat64(AssessmentsCreated.WithLabelValues("company", "high")))

	beforeDel := testutil.ToFloat64(AssessmentsDeleted.WithLabelValues("individual"))
	Recorder{}.AssessmentDeleted("individual")
	assert.Equal(t, beforeDel+1, testutil.ToFloat64(AssessmentsDeleted.WithLabelValues("individual")))

	Recorder{}.ScoreObserved("altman", -4.1)
}

func TestJobTimer(t *testing.T) {
	ok := StartJob("predict-company-risk")
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues("predict-company-risk")))
	ok.Done("")
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues("predict-company-risk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("predict-company-risk")))

	StartJob("delete-assessment").Done("ASSESSMENT_NOT_FOUND")
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("delete-assessment", "ASSESSMENT_NOT_FOUND")))
}
