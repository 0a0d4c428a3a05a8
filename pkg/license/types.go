package license

import "time"

// SchemaVersion is stamped into every license this build generates. Codes
// with a different major version are rejected as malformed.
const SchemaVersion = "1.0"

// Type is the tier a license was purchased at.
type Type string

const (
	Trial        Type = "trial"
	Standard     Type = "standard"
	Professional Type = "professional"
)

func (t Type) Valid() bool {
	switch t {
	case Trial, Standard, Professional:
		return true
	}
	return false
}

// Data is the entitlement claim embedded in a license code. It is created
// once by the vendor-side generator and immutable afterwards.
type Data struct {
	Email  string    `json:"email"`
	Type   Type      `json:"type"`
	Issued time.Time `json:"issued"`
	// Expires is always strictly after Issued.
	Expires time.Time `json:"expires"`
	// A nil MaxUses indicates no usage limit. It serializes as null so the
	// field is always present in the canonical form.
	MaxUses *int   `json:"max_uses"`
	Version string `json:"version"`
}

// Package is a decoded license code: the claim plus the MAC that was
// computed over its canonical serialization. Decoding does not verify the
// signature, so holding a Package does not imply entitlement.
type Package struct {
	Data      Data
	Signature []byte
}
