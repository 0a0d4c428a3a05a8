package license

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

var testSigner = NewSigner([]byte("unit-test-signing-key"))

func testData() Data {
	return Data{
		Email:   "a@b.com",
		Type:    Trial,
		Issued:  time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Expires: time.Date(2027, 1, 2, 15, 4, 5, 0, time.UTC),
		Version: SchemaVersion,
	}
}

func mustEncode(t *testing.T, data Data) string {
	canonical, err := Canonical(data)
	require.NoError(t, err)

	code, err := Encode(data, testSigner.Sign(canonical))
	require.NoError(t, err)
	return code
}

func noUsage(string) int {
	return 0
}

func TestRoundTrip(t *testing.T) {
	maxUses := 5
	data := testData()
	data.MaxUses = &maxUses

	decoded, err := Decode(mustEncode(t, data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded.Data)
}

func TestRoundTripUnlimited(t *testing.T) {
	data := testData()

	decoded, err := Decode(mustEncode(t, data))
	require.NoError(t, err)
	assert.Nil(t, decoded.Data.MaxUses)
	assert.Equal(t, data, decoded.Data)
}

func TestCanonicalIsDeterministic(t *testing.T) {
	first, err := Canonical(testData())
	require.NoError(t, err)
	second, err := Canonical(testData())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeSkipsVerification(t *testing.T) {
	code, err := Encode(testData(), []byte("not a real signature"))
	require.NoError(t, err)

	decoded, err := Decode(code)
	require.NoError(t, err)
	assert.Equal(t, testData(), decoded.Data)
}

func TestDecodeMalformed(t *testing.T) {
	missingEmail := testData()
	missingEmail.Email = ""
	badType := testData()
	badType.Type = "gold"
	futureSchema := testData()
	futureSchema.Version = "2.0"

	tests := []struct {
		name string
		code string
	}{
		{
			name: "NotBase64",
			code: "!!! definitely not base64 !!!",
		},
		{
			name: "NotJSON",
			code: base64.StdEncoding.EncodeToString([]byte("not json")),
		},
		{
			name: "NullLicense",
			code: encodeEnvelope(t, nil, "abcd"),
		},
		{
			name: "MissingEmail",
			code: mustEncode(t, missingEmail),
		},
		{
			name: "UnknownType",
			code: mustEncode(t, badType),
		},
		{
			name: "UnsupportedSchemaVersion",
			code: mustEncode(t, futureSchema),
		},
		{
			name: "SignatureNotHex",
			code: encodeEnvelope(t, mustCanonical(t, testData()), "not hex"),
		},
	}

	for _, test := range tests {
		_, err := Decode(test.code)
		assert.True(t, errors.Is(err, ErrMalformed), test.name)
	}
}

func TestTamperDetection(t *testing.T) {
	data := testData()
	canonical := mustCanonical(t, data)
	mac := testSigner.Sign(canonical)

	// Edit the claim without re-signing. The mutation keeps the JSON valid
	// so the failure comes from the signature check, not the decoder.
	mutated := bytes.Replace(canonical, []byte("a@b.com"), []byte("a@b.con"), 1)
	require.NotEqual(t, canonical, mutated)
	code := encodeEnvelope(t, mutated, hex.EncodeToString(mac))

	validator := NewValidator(testSigner)
	_, err := validator.Validate(code, data.Issued, noUsage)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestValidateWrongKey(t *testing.T) {
	validator := NewValidator(NewSigner([]byte("some other key")))
	_, err := validator.Validate(mustEncode(t, testData()), testData().Issued, noUsage)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestValidateExpiry(t *testing.T) {
	data := testData()
	code := mustEncode(t, data)
	validator := NewValidator(testSigner)

	// Expiring exactly now is still valid.
	validated, err := validator.Validate(code, data.Expires, noUsage)
	require.NoError(t, err)
	assert.Equal(t, data, validated)

	_, err = validator.Validate(code, data.Expires.Add(time.Second), noUsage)
	assert.True(t, errors.Is(err, ErrExpired))
}

func TestValidateUsageCeiling(t *testing.T) {
	maxUses := 5
	data := testData()
	data.MaxUses = &maxUses
	code := mustEncode(t, data)
	validator := NewValidator(testSigner)

	for count := 0; count < maxUses; count++ {
		_, err := validator.Validate(code, data.Issued, func(string) int { return count })
		assert.NoError(t, err, count)
	}

	_, err := validator.Validate(code, data.Issued, func(string) int { return maxUses })
	assert.True(t, errors.Is(err, ErrUsageLimitExceeded))
}

func TestValidateUnlimitedIgnoresUsage(t *testing.T) {
	data := testData()
	validator := NewValidator(testSigner)

	_, err := validator.Validate(mustEncode(t, data), data.Issued, func(string) int { return 1000000 })
	assert.NoError(t, err)
}

func TestVerify(t *testing.T) {
	message := []byte("message")
	mac := testSigner.Sign(message)

	assert.True(t, testSigner.Verify(message, mac))
	assert.False(t, testSigner.Verify(message, nil))
	assert.False(t, testSigner.Verify(message, mac[:len(mac)-1]))
	assert.False(t, testSigner.Verify([]byte("other message"), mac))
	assert.False(t, NewSigner([]byte("other key")).Verify(message, mac))
}

func mustCanonical(t *testing.T, data Data) []byte {
	canonical, err := Canonical(data)
	require.NoError(t, err)
	return canonical
}

func encodeEnvelope(t *testing.T, licenseJSON []byte, signature string) string {
	packageJSON, err := json.Marshal(envelope{
		License:   licenseJSON,
		Signature: signature,
	})
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(packageJSON)
}
