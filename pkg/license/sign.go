package license

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SigningKeyBase64 is expected to be set at build time. Every installation
// shares the same key, so the key can be extracted from a distributed
// binary. This is a known limitation of the offline design: there is no
// per-customer secret and no rotation story yet.
var SigningKeyBase64 string

// DefaultSigner returns the signer keyed with the build-embedded key.
func DefaultSigner() *Signer {
	return NewSigner(mustDecodeBase64(SigningKeyBase64))
}

// Signer computes and checks HMAC-SHA-256 MACs over license serializations.
// The key is injected so tests and future key-rotation work don't have to
// touch the sign/verify logic.
type Signer struct {
	key []byte
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key}
}

func (s *Signer) Sign(message []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(message)
	return mac.Sum(nil)
}

// Verify runs in constant time with respect to the candidate MAC. A
// malformed MAC simply verifies false.
func (s *Signer) Verify(message, mac []byte) bool {
	return hmac.Equal(s.Sign(message), mac)
}

func mustDecodeBase64(encoded string) []byte {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		panic(err)
	}
	return decoded
}
