// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssessmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_created_total",
			Help: "Assessments persisted, by borrower kind and final risk level",
		},
		[]string{"kind", "risk_level"},
	)

	AssessmentsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_deleted_total",
			Help: "Assessments deleted, by borrower kind",
		},
		[]string{"kind"},
	)

	ScoreValue = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risk_score_value",
			Help:    "Distribution of computed scores per model",
			Buckets: []float64{-5, -2, -1, -0.5, 0, 0.2, 0.3, 1, 2, 5, 300, 400, 500, 600, 700, 800, 850},
		},
		[]string{"model"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_http_requests_total",
			Help: "REST requests by route and status code",
		},
		[]string{"route", "method", "status"},
	)
)

// Recorder writes domain events to the package collectors.
type Recorder struct{}

func (Recorder) AssessmentCreated(kind, riskLevel string) {
	AssessmentsCreated.WithLabelValues(kind, riskLevel).Inc()
}

func (Recorder) AssessmentDeleted(kind string) {
	AssessmentsDeleted.WithLabelValues(kind).Inc()
}

func (Recorder) ScoreObserved(model string, value float64) {
	ScoreValue.WithLabelValues(model).Observe(value)
}

// JobTimer tracks one worker job from start to finish.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the outcome. An empty errorCode counts as success.
func (j *JobTimer) Done(errorCode string) {
	WorkerJobsActive.WithLabelValues(j.taskType).Dec()
	WorkerJobDuration.WithLabelValues(j.taskType).Observe(time.Since(j.start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(j.taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(j.taskType, errorCode).Inc()
}
