package authkit

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID int

const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterDuplicate
	MetricLoginSuccess
	MetricLoginFailure
	MetricSecondFactorRequired
	MetricSecondFactorSuccess
	MetricSecondFactorFailure
	MetricBackupCodeUsed
	MetricBackupCodeFailed
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricPasswordResetRequested
	MetricPasswordResetSuccess
	MetricPasswordResetFailure
	MetricEmailVerified
	MetricEmailVerificationFailed

	metricCount
)

var metricNames = [metricCount]string{
	MetricRegisterSuccess:         "register_success",
	MetricRegisterDuplicate:       "register_duplicate",
	MetricLoginSuccess:            "login_success",
	MetricLoginFailure:            "login_failure",
	MetricSecondFactorRequired:    "second_factor_required",
	MetricSecondFactorSuccess:     "second_factor_success",
	MetricSecondFactorFailure:     "second_factor_failure",
	MetricBackupCodeUsed:          "backup_code_used",
	MetricBackupCodeFailed:        "backup_code_failed",
	MetricRefreshSuccess:          "refresh_success",
	MetricRefreshFailure:          "refresh_failure",
	MetricPasswordResetRequested:  "password_reset_requested",
	MetricPasswordResetSuccess:    "password_reset_success",
	MetricPasswordResetFailure:    "password_reset_failure",
	MetricEmailVerified:           "email_verified",
	MetricEmailVerificationFailed: "email_verification_failed",
}

// String returns the snake_case counter name.
func (m MetricID) String() string {
	if m < 0 || m >= metricCount {
		return "unknown"
	}
	return metricNames[m]
}

// metrics is a fixed set of atomic counters. When disabled every
// operation is a no-op.
type metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

func newMetrics(enabled bool) *metrics {
	return &metrics{enabled: enabled}
}

func (m *metrics) inc(id MetricID) {
	if m == nil || !m.enabled || id < 0 || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

func (m *metrics) snapshot() map[string]uint64 {
	out := make(map[string]uint64, metricCount)
	if m == nil {
		return out
	}
	for i := MetricID(0); i < metricCount; i++ {
		out[i.String()] = m.counters[i].Load()
	}
	return out
}
