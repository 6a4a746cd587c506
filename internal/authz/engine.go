// Package authz implements the ownership authorization engine shared by the
// secure and vulnerable API variants. One engine, one rule set; the only
// difference between the two APIs is whether the verdict is enforced.
package authz

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/authz/metrics"
	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// Engine decides whether a subject may act on a resource. It is stateless
// apart from its collaborators: decisions for different requests may run
// fully in parallel, and the owner lookup is the only blocking point.
type Engine struct {
	lookup  OwnerLookup
	enforce bool
	metrics *metrics.Metrics
}

// New constructs an engine. enforce=false produces the deliberately
// vulnerable behavior: ownership is still evaluated and recorded in the
// decision's Verdict, but a would-be deny surfaces as allow.
func New(lookup OwnerLookup, enforce bool, m *metrics.Metrics) *Engine {
	return &Engine{lookup: lookup, enforce: enforce, metrics: m}
}

// Enforcing reports whether the engine applies ownership verdicts.
func (e *Engine) Enforcing() bool { return e.enforce }

// Authorize evaluates subject against resource and returns the decision.
// Emitting the matching security event is the caller's responsibility; the
// engine itself has no side effects beyond metrics.
//
// Errors are infrastructure failures only (owner lookup unavailable). Deny
// and not-found are first-class outcomes, never errors.
func (e *Engine) Authorize(ctx context.Context, subject domain.Subject, ref domain.ResourceRef) (domain.Decision, error) {
	d := domain.Decision{
		Subject:  subject,
		Resource: ref,
		Enforced: e.enforce,
	}

	if !ref.Type.Valid() || ref.ID <= 0 {
		return domain.Decision{}, dErrors.New(dErrors.CodeBadRequest, "invalid resource reference")
	}

	if subject.IsAdmin() {
		d.Outcome = domain.OutcomeAllow
		d.Verdict = domain.OutcomeAllow
		d.Reason = domain.ReasonAdminOverride
		e.count(d)
		return d, nil
	}

	verdict, ownerID, err := e.evaluateOwnership(ctx, subject, ref)
	if err != nil {
		if !e.enforce {
			// The vulnerable variant never consults ownership on its hot
			// path, so a failed lookup only costs the BOLA detection signal.
			d.Outcome = domain.OutcomeAllow
			d.Verdict = domain.OutcomeAllow
			d.Reason = domain.ReasonUnenforced
			e.count(d)
			return d, nil
		}
		return domain.Decision{}, dErrors.Wrap(dErrors.CodeInternal, "owner lookup failed", err)
	}

	d.Verdict = verdict
	d.OwnerID = ownerID

	switch {
	case e.enforce:
		d.Outcome = verdict
		d.Reason = reasonFor(verdict)
	case verdict == domain.OutcomeNotFound:
		// Nothing to serve either way.
		d.Outcome = domain.OutcomeNotFound
		d.Reason = domain.ReasonAbsent
	default:
		d.Outcome = domain.OutcomeAllow
		if verdict == domain.OutcomeDeny {
			d.Reason = domain.ReasonUnenforced
		} else {
			d.Reason = domain.ReasonOwner
		}
	}

	e.count(d)
	return d, nil
}

// AuthorizeRole is the role-only policy used by admin endpoints: no resource,
// no ownership, just a role gate. The decision value keeps the same shape so
// the event emitter treats both policies uniformly.
func (e *Engine) AuthorizeRole(subject domain.Subject, required domain.Role) domain.Decision {
	d := domain.Decision{
		Subject:  subject,
		Enforced: true,
	}
	if subject.Role == required || subject.IsAdmin() {
		d.Outcome = domain.OutcomeAllow
		d.Verdict = domain.OutcomeAllow
		if subject.IsAdmin() {
			d.Reason = domain.ReasonAdminOverride
		} else {
			d.Reason = domain.ReasonOwner
		}
		return d
	}
	d.Outcome = domain.OutcomeDeny
	d.Verdict = domain.OutcomeDeny
	d.Reason = domain.ReasonNotOwner
	return d
}

// evaluateOwnership resolves the ownership verdict for a non-admin subject.
// The user resource is reflexive: a subject owns exactly the user record
// matching its own id, so no lookup is needed.
func (e *Engine) evaluateOwnership(ctx context.Context, subject domain.Subject, ref domain.ResourceRef) (domain.Outcome, int64, error) {
	if ref.Type == domain.ResourceUser {
		if ref.ID == subject.ID {
			return domain.OutcomeAllow, subject.ID, nil
		}
		return domain.OutcomeDeny, ref.ID, nil
	}

	ownerID, found, err := e.lookup.LookupOwner(ctx, ref)
	if err != nil {
		return "", 0, err
	}
	if !found {
		return domain.OutcomeNotFound, 0, nil
	}
	if ownerID == subject.ID {
		return domain.OutcomeAllow, ownerID, nil
	}
	return domain.OutcomeDeny, ownerID, nil
}

func reasonFor(verdict domain.Outcome) string {
	switch verdict {
	case domain.OutcomeAllow:
		return domain.ReasonOwner
	case domain.OutcomeDeny:
		return domain.ReasonNotOwner
	default:
		return domain.ReasonAbsent
	}
}

func (e *Engine) count(d domain.Decision) {
	e.metrics.IncrementDecision(string(d.Outcome), string(d.Resource.Type), e.enforce)
	if d.Bypassed() {
		e.metrics.IncrementBypass(string(d.Resource.Type))
	}
}
