// Package securitylog captures security events as an append-only, rotating
// JSONL log. Every authorization decision that matters lands here exactly
// once, before the HTTP response is written, and the monitoring pipeline
// tails the same file.
package securitylog

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity is the triage tag attached to a security event.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Critical reports whether the severity warrants alerting.
func (s Severity) Critical() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Event is the persisted and streamed wire shape: one JSON object per line.
// Extra keys are flattened into the top-level object on marshal.
type Event struct {
	Timestamp    time.Time      `json:"timestamp"`
	Key          string         `json:"event"`
	Severity     Severity       `json:"severity"`
	SubjectID    int64          `json:"subjectId,omitempty"`
	SubjectEmail string         `json:"subjectEmail,omitempty"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	OwnerID      int64          `json:"ownerId,omitempty"`
	Blocked      bool           `json:"blocked"`
	Message      string         `json:"message,omitempty"`
	Method       string         `json:"method,omitempty"`
	Resource     string         `json:"resource,omitempty"`
	Source       string         `json:"source,omitempty"`
	Extra        map[string]any `json:"-"`
}

// Blocking reports whether the event records an enforcement action. The
// aggregator counts these; the match is on the event key by design so that
// externally produced logs classify the same way.
func (e Event) Blocking() bool {
	key := strings.ToUpper(e.Key)
	return strings.Contains(key, "BLOCKED") || strings.Contains(key, "UNAUTHORIZED")
}

// MarshalJSON flattens Extra into the top-level object, matching the wire
// shape consumed by the dashboard. Reserved field names win over Extra keys.
// subjectId is always present, null when the event has no authenticated
// subject (failed logins, anonymous rate-limit breaches).
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	wire := struct {
		alias
		SubjectID *int64 `json:"subjectId"`
	}{alias: alias(e)}
	if e.SubjectID != 0 {
		wire.SubjectID = &e.SubjectID
	}
	base, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(e.Extra)+12)
	for k, v := range e.Extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// AccessEntry is the access-log line for ordinary allowed traffic. It is kept
// out of the security log so the dashboard only sees events worth triaging.
type AccessEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Method       string    `json:"method"`
	URL          string    `json:"url"`
	IP           string    `json:"ip,omitempty"`
	StatusCode   int       `json:"statusCode"`
	ResponseTime string    `json:"responseTime,omitempty"`
	User         string    `json:"user,omitempty"`
}
