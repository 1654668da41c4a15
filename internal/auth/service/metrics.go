package service

import (
	"github.com/AlibekovAA/profile-editor/internal/observability/metrics"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementDemoLogins(result string) {
	metrics.DemoLoginsTotal.WithLabelValues(result).Inc()
}
