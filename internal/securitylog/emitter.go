package securitylog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	"github.com/Alex-byteai/bola-security-demo/pkg/requestcontext"
)

// Action is the operation a decision guarded. It selects the event key.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Emitter turns decisions and other sensitive actions into persisted events.
// Emission is synchronous and fire-and-forget from the caller's perspective:
// a sink failure is logged, never propagated into the request path.
type Emitter struct {
	security *Sink
	access   *Sink
	logger   *slog.Logger
	source   string
}

// NewEmitter builds an emitter tagging events with the given source
// ("secure", "vulnerable", "monitor"). Emitters for different sources may
// share the same sinks.
func NewEmitter(security, access *Sink, logger *slog.Logger, source string) *Emitter {
	return &Emitter{
		security: security,
		access:   access,
		logger:   logger,
		source:   source,
	}
}

// SecurityLogPath exposes the live security log for the stream tailer.
func (e *Emitter) SecurityLogPath() string { return e.security.Path() }

// Emit appends one event to the security log. Timestamp and source are
// filled in when absent; severity defaults to MEDIUM.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.Severity == "" {
		ev.Severity = SeverityMedium
	}
	if ev.Source == "" {
		ev.Source = e.source
	}

	if err := e.security.Append(ev); err != nil {
		e.logger.ErrorContext(ctx, "failed to append security event",
			"event", ev.Key,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}

	e.logger.WarnContext(ctx, ev.Message,
		"event", ev.Key,
		"severity", ev.Severity,
		"subject_id", ev.SubjectID,
		"resource", ev.ResourceType+"/"+ev.ResourceID,
		"blocked", ev.Blocked,
	)
}

// Access records ordinary allowed traffic in the separate access log.
func (e *Emitter) Access(ctx context.Context, entry AccessEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := e.access.Append(entry); err != nil {
		e.logger.ErrorContext(ctx, "failed to append access entry",
			"url", entry.URL,
			"error", err,
		)
	}
}

// Decision emits the event matching an authorization decision, if any.
// Owner-allows stay out of the security log (they land in the access log via
// the HTTP middleware); everything else produces exactly one security event.
func (e *Emitter) Decision(ctx context.Context, d domain.Decision, action Action) {
	switch {
	case d.Reason == domain.ReasonAdminOverride:
		e.Emit(ctx, Event{
			Key:          "ADMIN_ACCESS_GRANTED",
			Severity:     SeverityLow,
			SubjectID:    d.Subject.ID,
			SubjectEmail: d.Subject.Email,
			ResourceType: string(d.Resource.Type),
			ResourceID:   formatResourceID(d.Resource.ID),
			Message:      fmt.Sprintf("admin %s of %s %d", action, d.Resource.Type, d.Resource.ID),
		})

	case d.Bypassed():
		e.Emit(ctx, Event{
			Key:          bypassKey(d.Resource.Type, action),
			Severity:     SeverityCritical,
			SubjectID:    d.Subject.ID,
			SubjectEmail: d.Subject.Email,
			ResourceType: string(d.Resource.Type),
			ResourceID:   formatResourceID(d.Resource.ID),
			OwnerID:      d.OwnerID,
			Message:      fmt.Sprintf("BOLA: %s %d owned by user %d served to user %d without ownership check", d.Resource.Type, d.Resource.ID, d.OwnerID, d.Subject.ID),
			Extra:        map[string]any{"enforcement": "none"},
		})

	case d.Enforced && (d.Outcome == domain.OutcomeDeny || d.Outcome == domain.OutcomeNotFound):
		e.Emit(ctx, Event{
			Key:          blockedKey(d.Resource.Type, action),
			Severity:     SeverityHigh,
			SubjectID:    d.Subject.ID,
			SubjectEmail: d.Subject.Email,
			ResourceType: string(d.Resource.Type),
			ResourceID:   formatResourceID(d.Resource.ID),
			OwnerID:      d.OwnerID,
			Blocked:      true,
			Message:      fmt.Sprintf("blocked %s of %s %d", action, d.Resource.Type, d.Resource.ID),
			Extra:        map[string]any{"enforcement": "owner_only"},
		})
	}
}

// blockedKey names the enforcement event for a denied or absent resource.
// Deny and not-found share a key on purpose: the log must not distinguish
// them any more than the HTTP response does.
func blockedKey(rt domain.ResourceType, action Action) string {
	if rt == domain.ResourceUser {
		if action == ActionUpdate {
			return "UNAUTHORIZED_USER_UPDATE_BLOCKED"
		}
		return "UNAUTHORIZED_USER_ACCESS_BLOCKED"
	}
	switch action {
	case ActionUpdate:
		return "UNAUTHORIZED_UPDATE_BLOCKED"
	case ActionDelete:
		return "UNAUTHORIZED_DELETE_BLOCKED"
	default:
		return "UNAUTHORIZED_ACCESS_BLOCKED"
	}
}

// bypassKey names the BOLA detection event for an unenforced foreign access.
func bypassKey(rt domain.ResourceType, action Action) string {
	switch rt {
	case domain.ResourceOrder:
		switch action {
		case ActionUpdate:
			return "ORDER_MODIFIED_BOLA"
		case ActionDelete:
			return "ORDER_DELETED_BOLA"
		default:
			return "ORDER_ACCESS_BOLA"
		}
	case domain.ResourceUser:
		return "USER_DATA_ACCESS_ATTEMPT"
	default:
		return "BOLA_ATTEMPT"
	}
}

func formatResourceID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
