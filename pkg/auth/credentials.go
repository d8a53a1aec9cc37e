package auth

import (
	"fmt"
	"strconv"
)

// Credentials identify an API key. The zero value is valid for public routes only.
type Credentials struct {
	Key    string
	Secret string
}

func NewCredentials(key, secret string) Credentials {
	return Credentials{Key: key, Secret: secret}
}

// HasKeyPair reports whether both key and secret are set, as private routes need.
func (c Credentials) HasKeyPair() bool {
	return c.Key != "" && c.Secret != ""
}

// Validate checks that the secret is well formed base64.
func (c Credentials) Validate() error {
	_, err := DecodeSecret(c.Secret)
	return err
}

// Headers builds a fresh authentication header set for one request.
func (c Credentials) Headers(timestamp int64, method, path, body string) (map[string]string, error) {
	sig, err := Sign(c.Secret, timestamp, method, path, body)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		HeaderContentType:     ContentTypeJSON,
		HeaderAccessKey:       c.Key,
		HeaderAccessSignature: sig,
		HeaderAccessTimestamp: strconv.FormatInt(timestamp, 10),
	}, nil
}

// String never prints the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Key: %q, Secret: <redacted>}", c.Key)
}
