package adminauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID int

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRateLimited
	MetricSessionIssued
	MetricSessionRevoked
	MetricPermissionDenied
	MetricCodeIssued
	MetricCodeVerified
	MetricCodeRejected
	MetricResetRequested
	MetricResetConfirmed
	MetricPasswordChanged

	metricCount
)

func (m MetricID) String() string {
	switch m {
	case MetricLoginSuccess:
		return "login_success"
	case MetricLoginFailure:
		return "login_failure"
	case MetricLoginRateLimited:
		return "login_rate_limited"
	case MetricSessionIssued:
		return "session_issued"
	case MetricSessionRevoked:
		return "session_revoked"
	case MetricPermissionDenied:
		return "permission_denied"
	case MetricCodeIssued:
		return "code_issued"
	case MetricCodeVerified:
		return "code_verified"
	case MetricCodeRejected:
		return "code_rejected"
	case MetricResetRequested:
		return "reset_requested"
	case MetricResetConfirmed:
		return "reset_confirmed"
	case MetricPasswordChanged:
		return "password_changed"
	default:
		return "unknown"
	}
}

// Metrics holds the engine's in-process counters. A nil Metrics is valid
// and counts nothing.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	return &Metrics{}
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || id < 0 || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id < 0 || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot returns a point-in-time copy of every counter keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	snapshot := make(map[string]uint64, metricCount)
	if m == nil {
		return snapshot
	}
	for id := MetricID(0); id < metricCount; id++ {
		snapshot[id.String()] = m.counters[id].Load()
	}
	return snapshot
}
