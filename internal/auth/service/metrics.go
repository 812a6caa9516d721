package service

import (
	"github.com/AlibekovAA/memorize-api/internal/observability/metrics"
)

const (
	loginOutcomeSuccess         = "success"
	loginOutcomeUnknownEmail    = "unknown_email"
	loginOutcomeInvalidPassword = "invalid_password"
	loginOutcomeError           = "error"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func observeLogin(outcome string) {
	metrics.LoginAttempts.WithLabelValues(outcome).Inc()
}
