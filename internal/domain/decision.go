package domain

// Outcome is the result of an ownership authorization check.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeDeny     Outcome = "deny"
	OutcomeNotFound Outcome = "not_found"
)

// Decision reasons. Kept as constants so event emission and tests can match
// on them without stringly-typed drift.
const (
	ReasonAdminOverride = "admin override"
	ReasonOwner         = "owner"
	ReasonNotOwner      = "not owner"
	ReasonAbsent        = "resource does not exist"
	ReasonUnenforced    = "ownership not enforced"
)

// Decision is the value produced once per protected operation. It is never
// mutated after creation; the handler acts on Outcome and hands the whole
// value to the event emitter.
//
// Outcome is what the caller must honor. Verdict is what the ownership
// evaluation concluded; the two differ only when enforcement is disabled, in
// which case a Verdict of deny surfaces as an allowed-but-flagged access.
type Decision struct {
	Subject  Subject
	Resource ResourceRef
	Outcome  Outcome
	Verdict  Outcome
	Reason   string
	// OwnerID is the ownership snapshot read during this decision. Zero when
	// the resource is absent or the owner was not resolved.
	OwnerID int64
	// Enforced records whether ownership was actually applied to Outcome.
	Enforced bool
}

// Allowed reports whether the handler may execute the operation.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Bypassed reports whether this decision let a request through that
// enforcement would have denied. This is the BOLA signal.
func (d Decision) Bypassed() bool {
	return !d.Enforced && d.Verdict == OutcomeDeny && d.Outcome == OutcomeAllow
}
