package adminauth

import (
	"context"
	"time"

	internalaudit "github.com/martelly/adminauth/internal/audit"
	"github.com/martelly/adminauth/internal/rate"
	"github.com/martelly/adminauth/password"
	"github.com/martelly/adminauth/permission"
	"github.com/martelly/adminauth/session"
)

// Engine is the authentication and authorization core. Construct one
// through [New] and its builder; a zero Engine is not usable. All methods
// are safe for concurrent use.
type Engine struct {
	config   Config
	provider AccountProvider

	sessions     *session.Store
	verification *verificationStore
	catalog      *permission.Catalog
	resolver     *permission.Resolver
	hasher       *password.Hasher
	limiter      *rate.Limiter
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
}

// Config returns a copy of the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// PermissionCatalog returns the frozen permission catalog.
func (e *Engine) PermissionCatalog() *permission.Catalog {
	return e.catalog
}

// Ping checks backing-store availability and reports round-trip latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	latency, err := e.sessions.Ping(ctx)
	if err != nil {
		return latency, ErrStoreUnavailable
	}
	return latency, nil
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
// Empty when metrics are disabled.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	return e.metrics.Snapshot()
}

// AuditDropped returns how many audit events the dispatcher has dropped
// because its buffer was full.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	e.audit.Close()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType, accountID, sessionID, ip string, success bool, errMsg string) {
	e.audit.Emit(ctx, internalaudit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		SessionID: sessionID,
		IP:        ip,
		Success:   success,
		Error:     errMsg,
	})
}
