package service

import (
	"github.com/AlibekovAA/profile-editor/internal/observability/metrics"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultInvalid = "invalid"
)

func incrementProfileReads(result string) {
	metrics.ProfileReadsTotal.WithLabelValues(result).Inc()
}

func incrementProfileUpdates(result string) {
	metrics.ProfileUpdatesTotal.WithLabelValues(result).Inc()
}

func incrementValidationFailure(field string) {
	metrics.ProfileValidationFailures.WithLabelValues(field).Inc()
}
