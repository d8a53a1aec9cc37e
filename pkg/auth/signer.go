// Package auth implements the EMX request signature:
// base64(HMAC-SHA256(base64decode(secret), timestamp + method + path + body)).
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/kingsmao/emx-connector/pkg/apierror"
)

const (
	HeaderAccessKey       = "EMX-ACCESS-KEY"
	HeaderAccessSignature = "EMX-ACCESS-SIG"
	HeaderAccessTimestamp = "EMX-ACCESS-TIMESTAMP"
	HeaderContentType     = "Content-Type"

	ContentTypeJSON = "application/json"

	// VerifyPath is signed with GET and an empty body to authenticate stream subscriptions.
	VerifyPath = "/v1/user/verify"
)

// Sign returns the base64 signature for one request. An empty body adds nothing to the message.
func Sign(secret string, timestamp int64, method, path, body string) (string, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}

	message := strconv.FormatInt(timestamp, 10) + method + path + body

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// DecodeSecret decodes a standard, padded base64 secret.
func DecodeSecret(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, &apierror.AuthError{Err: err}
	}
	return key, nil
}

// CanonicalBody encodes v as compact JSON. nil and typed nil pointers encode to "".
func CanonicalBody(v any) (string, error) {
	if isNil(v) {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Timestamp returns whole seconds since the epoch.
func Timestamp(now time.Time) int64 {
	return now.Unix()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
