package license

import (
	"time"

	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

var (
	ErrInvalidSignature   = errors.NewFriendlyError("Invalid license signature.")
	ErrExpired            = errors.NewFriendlyError("License has expired.")
	ErrUsageLimitExceeded = errors.NewFriendlyError("License usage limit exceeded.")
)

// UsageLookup reports how many metered uses have been recorded for a code.
type UsageLookup func(code string) int

// Validator applies the business rules to a license code. It has no clock
// and no storage of its own: `now` and the usage lookup are passed in by
// the caller, so the same validator serves both activation (no prior usage)
// and re-checks against a stored record.
type Validator struct {
	signer *Signer
}

func NewValidator(signer *Signer) *Validator {
	return &Validator{signer: signer}
}

// Validate checks a code in order: decode, signature, expiry, usage
// ceiling. It stops at the first failure.
//
// The signature is checked against a re-derived canonical serialization of
// the decoded claim, never against bytes the customer supplied. Editing the
// plaintext claim without re-signing therefore always fails here.
func (v *Validator) Validate(code string, now time.Time, usage UsageLookup) (Data, error) {
	pkg, err := Decode(code)
	if err != nil {
		return Data{}, err
	}

	canonical, err := Canonical(pkg.Data)
	if err != nil {
		return Data{}, errors.WithContext("canonicalize license", err)
	}
	if !v.signer.Verify(canonical, pkg.Signature) {
		return Data{}, ErrInvalidSignature
	}

	// A license expiring exactly now is still valid.
	if now.After(pkg.Data.Expires) {
		return Data{}, ErrExpired
	}

	if pkg.Data.MaxUses != nil && usage(code) >= *pkg.Data.MaxUses {
		return Data{}, ErrUsageLimitExceeded
	}

	return pkg.Data, nil
}
