package domain

import (
	"strconv"

	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// ResourceType identifies the kind of object a protected operation targets.
type ResourceType string

const (
	ResourceOrder   ResourceType = "order"
	ResourceUser    ResourceType = "user"
	ResourcePayment ResourceType = "payment"
)

// Valid reports whether the resource type is one of the supported set.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceOrder, ResourceUser, ResourcePayment:
		return true
	}
	return false
}

// ResourceRef identifies a single object. ID is always a positive integer;
// anything else is an input error, not an authorization question.
type ResourceRef struct {
	Type ResourceType
	ID   int64
}

// ParseResourceID validates a route parameter as a positive integer id.
// Malformed or non-positive values are rejected with a bad_request error so
// they never reach the authorization engine.
func ParseResourceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid resource id")
	}
	return id, nil
}
