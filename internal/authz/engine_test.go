package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

type fakeLookup struct {
	owners map[domain.ResourceRef]int64
	err    error
	calls  int
}

func (f *fakeLookup) LookupOwner(ctx context.Context, ref domain.ResourceRef) (int64, bool, error) {
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	owner, ok := f.owners[ref]
	return owner, ok, nil
}

type EngineSuite struct {
	suite.Suite
	lookup *fakeLookup
	ctx    context.Context

	alice domain.Subject
	bob   domain.Subject
	admin domain.Subject

	aliceOrder domain.ResourceRef
	bobPayment domain.ResourceRef
	ghostOrder domain.ResourceRef
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.alice = domain.Subject{ID: 1, Email: "alice@example.com", Role: domain.RoleUser}
	s.bob = domain.Subject{ID: 2, Email: "bob@example.com", Role: domain.RoleUser}
	s.admin = domain.Subject{ID: 4, Email: "admin@example.com", Role: domain.RoleAdmin}

	s.aliceOrder = domain.ResourceRef{Type: domain.ResourceOrder, ID: 10}
	s.bobPayment = domain.ResourceRef{Type: domain.ResourcePayment, ID: 20}
	s.ghostOrder = domain.ResourceRef{Type: domain.ResourceOrder, ID: 999}

	s.lookup = &fakeLookup{owners: map[domain.ResourceRef]int64{
		s.aliceOrder: 1,
		s.bobPayment: 2,
	}}
	s.ctx = context.Background()
}

func (s *EngineSuite) enforcing() *Engine {
	return New(s.lookup, true, nil)
}

func (s *EngineSuite) unenforced() *Engine {
	return New(s.lookup, false, nil)
}

func (s *EngineSuite) TestOwnerIsAllowed() {
	d, err := s.enforcing().Authorize(s.ctx, s.alice, s.aliceOrder)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeAllow, d.Outcome)
	s.Equal(domain.ReasonOwner, d.Reason)
	s.Equal(int64(1), d.OwnerID)
	s.True(d.Enforced)
}

func (s *EngineSuite) TestNonOwnerIsDenied() {
	d, err := s.enforcing().Authorize(s.ctx, s.bob, s.aliceOrder)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeDeny, d.Outcome)
	s.Equal(domain.ReasonNotOwner, d.Reason)
	s.Equal(int64(1), d.OwnerID)
	s.Equal(s.bob, d.Subject)
	s.Equal(s.aliceOrder, d.Resource)
}

func (s *EngineSuite) TestAbsentResourceIsNotFound() {
	for _, subject := range []domain.Subject{s.alice, s.bob} {
		d, err := s.enforcing().Authorize(s.ctx, subject, s.ghostOrder)
		s.Require().NoError(err)
		s.Equal(domain.OutcomeNotFound, d.Outcome)
		s.Zero(d.OwnerID)
	}
}

func (s *EngineSuite) TestAdminOverride() {
	for _, ref := range []domain.ResourceRef{s.aliceOrder, s.bobPayment, s.ghostOrder} {
		d, err := s.enforcing().Authorize(s.ctx, s.admin, ref)
		s.Require().NoError(err)
		s.Equal(domain.OutcomeAllow, d.Outcome)
		s.Equal(domain.ReasonAdminOverride, d.Reason)
	}
	s.Zero(s.lookup.calls, "admin override must not consult the owner lookup")
}

func (s *EngineSuite) TestUserResourceIsReflexive() {
	self := domain.ResourceRef{Type: domain.ResourceUser, ID: 1}
	other := domain.ResourceRef{Type: domain.ResourceUser, ID: 2}

	d, err := s.enforcing().Authorize(s.ctx, s.alice, self)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeAllow, d.Outcome)

	d, err = s.enforcing().Authorize(s.ctx, s.alice, other)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeDeny, d.Outcome)

	s.Zero(s.lookup.calls, "user ownership is an equality check, not a lookup")
}

func (s *EngineSuite) TestLookupFailurePropagates() {
	s.lookup.err = errors.New("connection refused")

	_, err := s.enforcing().Authorize(s.ctx, s.alice, s.aliceOrder)
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeInternal), "infrastructure failure must not degrade to deny")
}

func (s *EngineSuite) TestInvalidReferenceRejected() {
	_, err := s.enforcing().Authorize(s.ctx, s.alice, domain.ResourceRef{Type: "widget", ID: 1})
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeBadRequest))

	_, err = s.enforcing().Authorize(s.ctx, s.alice, domain.ResourceRef{Type: domain.ResourceOrder, ID: 0})
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeBadRequest))
}

func (s *EngineSuite) TestIdempotence() {
	first, err := s.enforcing().Authorize(s.ctx, s.bob, s.aliceOrder)
	s.Require().NoError(err)

	for range 5 {
		next, err := s.enforcing().Authorize(s.ctx, s.bob, s.aliceOrder)
		s.Require().NoError(err)
		s.Equal(first, next)
	}
}

func (s *EngineSuite) TestUnenforcedServesForeignResource() {
	d, err := s.unenforced().Authorize(s.ctx, s.bob, s.aliceOrder)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeAllow, d.Outcome)
	s.Equal(domain.OutcomeDeny, d.Verdict, "the verdict must still record what enforcement would have done")
	s.Equal(int64(1), d.OwnerID)
	s.True(d.Bypassed())
	s.False(d.Enforced)
}

func (s *EngineSuite) TestUnenforcedStillReportsAbsent() {
	d, err := s.unenforced().Authorize(s.ctx, s.bob, s.ghostOrder)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeNotFound, d.Outcome)
	s.False(d.Bypassed())
}

func (s *EngineSuite) TestUnenforcedToleratesLookupFailure() {
	s.lookup.err = errors.New("connection refused")

	d, err := s.unenforced().Authorize(s.ctx, s.bob, s.aliceOrder)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeAllow, d.Outcome)
	s.False(d.Bypassed())
}

func (s *EngineSuite) TestAuthorizeRole() {
	d := s.enforcing().AuthorizeRole(s.admin, domain.RoleAdmin)
	s.Equal(domain.OutcomeAllow, d.Outcome)

	d = s.enforcing().AuthorizeRole(s.alice, domain.RoleAdmin)
	s.Equal(domain.OutcomeDeny, d.Outcome)
}
