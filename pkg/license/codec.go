package license

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

// ErrMalformed indicates a license code that can't be decoded at all: bad
// encoding, bad JSON, missing fields, or a schema version this build
// doesn't understand.
var ErrMalformed = errors.NewFriendlyError("Invalid license code format.")

// envelope is the wire representation of a Package. The license claim is
// kept as raw JSON so tooling can inspect codes without knowing the signing
// key.
type envelope struct {
	License   json.RawMessage `json:"license"`
	Signature string          `json:"signature"`
}

// Canonical returns the deterministic serialization of a claim: JSON with
// the keys sorted. This exact byte sequence is what gets signed, and what
// Validate re-derives when verifying, so any change here invalidates every
// issued license.
func Canonical(data Data) ([]byte, error) {
	structJSON, err := json.Marshal(data)
	if err != nil {
		return nil, errors.WithContext("marshal license data", err)
	}

	// Round-tripping through a map sorts the keys, since encoding/json
	// always writes map keys in sorted order.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(structJSON, &fields); err != nil {
		return nil, errors.WithContext("reparse license data", err)
	}
	return json.Marshal(fields)
}

// Encode packs a claim and its MAC into the portable license code handed to
// customers.
func Encode(data Data, mac []byte) (string, error) {
	canonical, err := Canonical(data)
	if err != nil {
		return "", err
	}

	packageJSON, err := json.Marshal(envelope{
		License:   canonical,
		Signature: hex.EncodeToString(mac),
	})
	if err != nil {
		return "", errors.WithContext("marshal license package", err)
	}
	return base64.StdEncoding.EncodeToString(packageJSON), nil
}

// Decode reverses Encode. It deliberately does NOT verify the signature --
// that's the validator's job -- so it stays usable for tooling that only
// needs to look inside a code.
func Decode(code string) (Package, error) {
	packageJSON, err := base64.StdEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return Package{}, malformed("decode base64")
	}

	var env envelope
	if err := json.Unmarshal(packageJSON, &env); err != nil {
		return Package{}, malformed("unmarshal license package")
	}
	if len(env.License) == 0 {
		return Package{}, malformed("missing license payload")
	}

	var data Data
	if err := json.Unmarshal(env.License, &data); err != nil {
		return Package{}, malformed("unmarshal license data")
	}
	if data.Email == "" || !data.Type.Valid() || data.Issued.IsZero() ||
		data.Expires.IsZero() || data.Version == "" {
		return Package{}, malformed("missing license fields")
	}

	schema, err := semver.NewVersion(data.Version)
	if err != nil || schema.Major() != supportedSchemaMajor {
		return Package{}, malformed("unsupported schema version")
	}

	mac, err := hex.DecodeString(env.Signature)
	if err != nil {
		return Package{}, malformed("decode signature")
	}

	return Package{Data: data, Signature: mac}, nil
}

var supportedSchemaMajor = semver.MustParse(SchemaVersion).Major()

func malformed(context string) error {
	return errors.WithContext(context, ErrMalformed)
}
