package authcore

import "github.com/vidara/authcore/internal/metrics"

// MetricID identifies one engine counter.
type MetricID = metrics.MetricID

// Engine counters, readable through MetricsSnapshot.
const (
	MetricLoginSuccess          = metrics.MetricLoginSuccess
	MetricLoginFailure          = metrics.MetricLoginFailure
	MetricRefreshSuccess        = metrics.MetricRefreshSuccess
	MetricRefreshFailure        = metrics.MetricRefreshFailure
	MetricRefreshReuseDetected  = metrics.MetricRefreshReuseDetected
	MetricLogout                = metrics.MetricLogout
	MetricRegisterSuccess       = metrics.MetricRegisterSuccess
	MetricRegisterConflict      = metrics.MetricRegisterConflict
	MetricPasswordChangeSuccess = metrics.MetricPasswordChangeSuccess
	MetricPasswordChangeFailure = metrics.MetricPasswordChangeFailure
	MetricVerifySuccess         = metrics.MetricVerifySuccess
	MetricVerifyFailure         = metrics.MetricVerifyFailure
)

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = metrics.Snapshot

// MetricsSnapshot returns the current counter values. Returns an empty
// snapshot when metrics are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}
