package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Workouts created, by type.",
	}, []string{"type"})
	workoutsEdited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "edited_total",
		Help:      "Workouts replaced through an edit, by resulting type.",
	}, []string{"type"})
	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "validation_failures_total",
		Help:      "Form submissions rejected by input validation.",
	})
	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "write_failures_total",
		Help:      "Failed writes of the workout collection to the key-value store.",
	})
	droppedEntries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "dropped_entries_total",
		Help:      "Persisted entries skipped on load: unknown type tag or malformed.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, workoutsEdited, validationFailures, persistFailures, droppedEntries)
}

// RecordCreated counts a new workout.
func RecordCreated(workoutType string) {
	workoutsCreated.WithLabelValues(workoutType).Inc()
}

// RecordEdited counts a committed edit.
func RecordEdited(workoutType string) {
	workoutsEdited.WithLabelValues(workoutType).Inc()
}

// RecordValidationFailure counts a rejected submission.
func RecordValidationFailure() {
	validationFailures.Inc()
}

// RecordPersistFailure counts a failed storage write.
func RecordPersistFailure() {
	persistFailures.Inc()
}

// RecordDroppedEntries counts persisted entries that could not be restored.
func RecordDroppedEntries(n int) {
	if n <= 0 {
		return
	}
	droppedEntries.Add(float64(n))
}
