package sdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

func TestNew_Defaults(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, schema.EMX, s.Exchange().Name())
	assert.Equal(t, schema.FUTURES, s.Exchange().Market())
	assert.False(t, s.HasCredentials())
	assert.Equal(t, "http://api.testnet.emx.com", s.Config().REST.BaseURL)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Key = "key-1"
	cfg.API.Secret = "not base64!"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestSDK_RESTUsesConfig(t *testing.T) {
	seen := make(chan [2]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- [2]string{r.Header.Get(auth.HeaderAccessKey), r.URL.RequestURI()}
		_, _ = io.WriteString(w, `{"accounts":[]}`)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.API.Key = "key-1"
	cfg.API.Secret = "c2VjcmV0"
	cfg.REST.BaseURL = srv.URL
	cfg.REST.Timeout = 2 * time.Second

	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	res, err := s.REST().GetAccounts(context.Background())
	require.NoError(t, err)
	got := <-seen
	assert.Equal(t, "key-1", got[0])
	assert.Equal(t, "/v1/accounts", got[1])

	var accounts schema.AccountsResponse
	require.NoError(t, res.Decode(&accounts))
	assert.Empty(t, accounts.Accounts)
}

func TestSDK_CloseIsIdempotent(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	// a closed stream reports a request error rather than panicking
	_, err = s.WS().Receive(context.Background())
	assert.True(t, apierror.IsRequest(err))
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile("/nonexistent/emx.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
