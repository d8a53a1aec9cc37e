package futures

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

// fakeStream upgrades one connection, forwards every client frame to
// received and writes whatever arrives on replies.
type fakeStream struct {
	received chan string
	replies  chan string
	done     chan struct{}
}

func newFakeStream(t *testing.T) (*fakeStream, string) {
	t.Helper()
	fs := &fakeStream{
		received: make(chan string, 8),
		replies:  make(chan string, 8),
		done:     make(chan struct{}),
	}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		go func() {
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				fs.received <- string(msg)
			}
		}()

		for {
			select {
			case <-fs.done:
				return
			case reply := <-fs.replies:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(func() {
		close(fs.done)
		srv.Close()
	})
	return fs, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (fs *fakeStream) next(t *testing.T) map[string]any {
	t.Helper()
	select {
	case raw := <-fs.received:
		var msg map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("server received nothing")
		return nil
	}
}

func newTestWS(t *testing.T, url string, readTimeout time.Duration) *FuturesWS {
	t.Helper()
	ws := NewFuturesWS(auth.NewCredentials("key-1", testSecret),
		WithWSURL(url),
		WithReadTimeout(readTimeout),
		WithHandshakeTimeout(2*time.Second),
		WithWSClock(func() time.Time { return time.Unix(1000, 0) }))
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func TestFuturesWS_SubscribeMessage(t *testing.T) {
	fs, url := newFakeStream(t)
	ws := newTestWS(t, url, time.Second)
	ctx := context.Background()

	require.NoError(t, ws.Connect(ctx))
	require.NoError(t, ws.Subscribe(ctx, []string{"BTCZ18"}, []schema.Channel{schema.ChannelTicker, schema.ChannelOrders}))

	msg := fs.next(t)
	wantSig, err := auth.Sign(testSecret, 1000, "GET", "/v1/user/verify", "")
	require.NoError(t, err)

	assert.Equal(t, "subscribe", msg["type"])
	assert.Equal(t, []any{"BTCZ18"}, msg["contract_codes"])
	assert.Equal(t, []any{"ticker", "orders"}, msg["channels"])
	assert.Equal(t, "key-1", msg["key"])
	assert.Equal(t, wantSig, msg["sig"])
	assert.EqualValues(t, 1000, msg["timestamp"])
}

func TestFuturesWS_UnsubscribeUsesGivenChannels(t *testing.T) {
	fs, url := newFakeStream(t)
	ws := newTestWS(t, url, time.Second)
	ctx := context.Background()

	require.NoError(t, ws.Connect(ctx))
	require.NoError(t, ws.Unsubscribe(ctx, []schema.Channel{schema.ChannelLevel2}))

	msg := fs.next(t)
	assert.Equal(t, "unsubscribe", msg["type"])
	assert.Equal(t, []any{}, msg["contract_codes"])
	assert.Equal(t, []any{"level2"}, msg["channels"])
}

func TestFuturesWS_ReceiveFrame(t *testing.T) {
	fs, url := newFakeStream(t)
	ws := newTestWS(t, url, time.Second)
	ctx := context.Background()

	require.NoError(t, ws.Connect(ctx))
	frame := `{"type":"subscriptions","channels":[{"name":"ticker","contract_codes":["BTCZ18"]}]}`
	fs.replies <- frame

	got, err := ws.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestFuturesWS_ReceiveTimeout(t *testing.T) {
	_, url := newFakeStream(t)
	ws := newTestWS(t, url, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, ws.Connect(ctx))

	_, err := ws.Receive(ctx)
	require.Error(t, err)
	var timeoutErr *apierror.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)

	// the session is unusable once a read has timed out
	_, err = ws.Receive(ctx)
	assert.True(t, apierror.IsRequest(err))
	assert.False(t, apierror.IsTimeout(err))

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
}

func TestFuturesWS_ReceiveCancelled(t *testing.T) {
	_, url := newFakeStream(t)
	ws := newTestWS(t, url, 5*time.Second)

	require.NoError(t, ws.Connect(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ws.Receive(ctx)
	require.Error(t, err)
	assert.True(t, apierror.IsRequest(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFuturesWS_NotConnected(t *testing.T) {
	ws := NewFuturesWS(auth.Credentials{})
	ctx := context.Background()

	assert.True(t, apierror.IsRequest(ws.Send(ctx, map[string]string{"type": "ping"})))
	_, err := ws.Receive(ctx)
	assert.True(t, apierror.IsRequest(err))
	assert.NoError(t, ws.Close())
}

func TestFuturesWS_MalformedSecret(t *testing.T) {
	fs, url := newFakeStream(t)
	ws := NewFuturesWS(auth.NewCredentials("key-1", "%%%"), WithWSURL(url))
	t.Cleanup(func() { _ = ws.Close() })

	require.NoError(t, ws.Connect(context.Background()))
	err := ws.Subscribe(context.Background(), []string{"BTCZ18"}, []schema.Channel{schema.ChannelOrders})
	assert.True(t, apierror.IsAuth(err))

	select {
	case raw := <-fs.received:
		t.Fatalf("unexpected frame sent: %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFuturesWS_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ws := NewFuturesWS(auth.Credentials{}, WithWSURL(url), WithHandshakeTimeout(time.Second))
	err := ws.Connect(context.Background())
	srv.Close()

	require.Error(t, err)
	assert.True(t, apierror.IsRequest(err))
	assert.Contains(t, err.Error(), "404")
}
