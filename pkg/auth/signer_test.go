package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsmao/emx-connector/pkg/apierror"
)

const testSecret = "c2VjcmV0" // base64("secret")

func TestSign_KnownVector(t *testing.T) {
	sig, err := Sign(testSecret, 1000, "GET", "/v1/accounts", "")
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("1000GET/v1/accounts"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, sig)
	assert.Equal(t, "Lp7MnvWTDXjriHhFhYdmhtWZ+GsBWGE4wHF5n13mNls=", sig)
}

func TestSign_Vectors(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		method    string
		path      string
		body      string
		want      string
	}{
		{
			name:      "literal empty object body",
			timestamp: 1000,
			method:    "GET",
			path:      "/v1/accounts",
			body:      "{}",
			want:      "EDCqzoNav1SRAfK55q7Vf4vK5IG1M2mgHqzoUCba4BQ=",
		},
		{
			name:      "query string is part of the path",
			timestamp: 1000,
			method:    "DELETE",
			path:      "/v1/orders?contract_code=BTCZ18",
			want:      "HXeDDTDkUHrGjVut9g65aY6ckfzrMZ5WW/g5VcViz88=",
		},
		{
			name:      "order body",
			timestamp: 1546300800,
			method:    "POST",
			path:      "/v1/orders",
			body:      `{"contract_code":"BTCZ18","type":"limit","side":"buy","size":"1","price":"3500.5","reduce_only":false,"post_only":true}`,
			want:      "oc2SkRB97MaCBX0Cv2M+vUBJnsdWGSgIZJsKnfnQsBg=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Sign(testSecret, tt.timestamp, tt.method, tt.path, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sig)
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	a, err := Sign(testSecret, 42, "PATCH", "/v1/orders/abc", `{"size":"2"}`)
	require.NoError(t, err)
	b, err := Sign(testSecret, 42, "PATCH", "/v1/orders/abc", `{"size":"2"}`)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Sign(testSecret, 43, "PATCH", "/v1/orders/abc", `{"size":"2"}`)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSign_EmptyBodyDiffersFromEmptyObject(t *testing.T) {
	empty, err := CanonicalBody(nil)
	require.NoError(t, err)
	obj, err := CanonicalBody(map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "", empty)
	assert.Equal(t, "{}", obj)

	s1, err := Sign(testSecret, 1000, "GET", "/v1/accounts", empty)
	require.NoError(t, err)
	s2, err := Sign(testSecret, 1000, "GET", "/v1/accounts", obj)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestSign_MalformedSecret(t *testing.T) {
	for _, secret := range []string{"not base64!", "c2VjcmV0=", "abc"} {
		t.Run(secret, func(t *testing.T) {
			_, err := Sign(secret, 1000, "GET", "/v1/accounts", "")
			require.Error(t, err)
			assert.True(t, apierror.IsAuth(err))
		})
	}
}

func TestCanonicalBody(t *testing.T) {
	type order struct {
		ContractCode string          `json:"contract_code"`
		Size         decimal.Decimal `json:"size"`
		Price        *string         `json:"price,omitempty"`
		PostOnly     bool            `json:"post_only"`
	}
	var nilOrder *order

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"typed nil pointer", nilOrder, ""},
		{"nil map", map[string]string(nil), ""},
		{"struct keeps field order", order{ContractCode: "BTCZ18", Size: decimal.RequireFromString("1.50")}, `{"contract_code":"BTCZ18","size":"1.5","post_only":false}`},
		{"map keys sorted", map[string]any{"order_id": "x", "alias": "a"}, `{"alias":"a","order_id":"x"}`},
		{"empty slice", []string{}, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalBody(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentials(t *testing.T) {
	creds := NewCredentials("key-1", testSecret)
	require.NoError(t, creds.Validate())
	assert.True(t, creds.HasKeyPair())
	assert.NotContains(t, fmt.Sprint(creds), testSecret)

	h, err := creds.Headers(1000, "GET", "/v1/accounts", "")
	require.NoError(t, err)
	assert.Equal(t, "key-1", h[HeaderAccessKey])
	assert.Equal(t, "1000", h[HeaderAccessTimestamp])
	assert.Equal(t, ContentTypeJSON, h[HeaderContentType])
	assert.Equal(t, "Lp7MnvWTDXjriHhFhYdmhtWZ+GsBWGE4wHF5n13mNls=", h[HeaderAccessSignature])

	// every call yields its own map
	h2, err := creds.Headers(1001, "GET", "/v1/accounts", "")
	require.NoError(t, err)
	assert.NotEqual(t, h[HeaderAccessSignature], h2[HeaderAccessSignature])
	assert.Equal(t, "1000", h[HeaderAccessTimestamp])

	bad := NewCredentials("key-1", "%%%")
	assert.True(t, apierror.IsAuth(bad.Validate()))
	assert.False(t, Credentials{}.HasKeyPair())
	assert.False(t, NewCredentials("", testSecret).HasKeyPair())
	assert.False(t, NewCredentials("key-1", "").HasKeyPair())
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, int64(1546300800), Timestamp(time.Date(2019, 1, 1, 0, 0, 0, 999, time.UTC)))
}
