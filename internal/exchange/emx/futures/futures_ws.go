package futures

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/interfaces"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

const (
	DefaultWSURL            = "wss://api.testnet.emx.com"
	DefaultReadTimeout      = 3 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20 // 1MB, level2 快照较大
)

var errNotConnected = errors.New("websocket not connected")

type subscribeMessage struct {
	Type          string   `json:"type"`
	ContractCodes []string `json:"contract_codes"`
	Channels      []string `json:"channels"`
	Key           string   `json:"key"`
	Sig           string   `json:"sig"`
	Timestamp     int64    `json:"timestamp"`
}

type unsubscribeMessage struct {
	Type          string   `json:"type"`
	ContractCodes []string `json:"contract_codes"`
	Channels      []string `json:"channels"`
}

// FuturesWS is a single streaming session. It never reconnects; after a
// receive timeout or a connection failure the caller closes it.
type FuturesWS struct {
	mu          sync.Mutex
	conn        interfaces.WSConn
	broken      error
	dialer      *websocket.Dialer
	url         string
	creds       auth.Credentials
	readTimeout time.Duration
	now         func() time.Time
}

// WSOption customizes FuturesWS.
type WSOption func(*FuturesWS)

func WithWSURL(u string) WSOption {
	return func(f *FuturesWS) { f.url = u }
}

// WithReadTimeout bounds how long Receive waits for one frame.
func WithReadTimeout(d time.Duration) WSOption {
	return func(f *FuturesWS) { f.readTimeout = d }
}

func WithHandshakeTimeout(d time.Duration) WSOption {
	return func(f *FuturesWS) { f.dialer.HandshakeTimeout = d }
}

// WithWSProxy dials through proxyURL. Invalid URLs are logged and ignored.
func WithWSProxy(proxyURL string) WSOption {
	return func(f *FuturesWS) {
		if proxyURL == "" {
			return
		}
		u, err := url.Parse(proxyURL)
		if err != nil {
			logger.Warn("EMX WS 代理地址无效，忽略: %v", err)
			return
		}
		f.dialer.Proxy = http.ProxyURL(u)
	}
}

func WithWSClock(now func() time.Time) WSOption {
	return func(f *FuturesWS) { f.now = now }
}

func NewFuturesWS(creds auth.Credentials, opts ...WSOption) *FuturesWS {
	f := &FuturesWS{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		url:         DefaultWSURL,
		creds:       creds,
		readTimeout: DefaultReadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FuturesWS) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn != nil {
		logger.Info("EMX WS 已连接，跳过连接")
		return nil
	}

	logger.Info("EMX WS 开始连接 %s ...", f.url)

	conn, resp, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("dial %s: %w (status %s)", f.url, err, resp.Status)
		} else {
			err = fmt.Errorf("dial %s: %w", f.url, err)
		}
		logger.Error("EMX WS 连接失败: %v", err)
		return apierror.NewTransportError(err)
	}
	conn.SetReadLimit(maxMessageSize)

	f.conn = interfaces.WSShim{Conn: conn}
	f.broken = nil
	logger.Info("EMX WS 连接成功")
	return nil
}

// Close sends a close frame and releases the socket. Safe to call repeatedly.
func (f *FuturesWS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		return nil
	}
	conn := f.conn
	f.conn = nil

	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	logger.Info("EMX WS 连接已关闭")
	return nil
}

// Send encodes message as JSON and writes it as one text frame.
func (f *FuturesWS) Send(ctx context.Context, message any) error {
	if err := ctx.Err(); err != nil {
		return apierror.NewTransportError(err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode ws message: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		return apierror.NewTransportError(errNotConnected)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = f.conn.SetWriteDeadline(deadline)

	logger.Debug("EMX WS 发送消息: %s", redactSig(message, payload))
	if err := f.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logger.Error("EMX WS 发送失败: %v", err)
		return apierror.NewTransportError(err)
	}
	return nil
}

// Subscribe joins channels for contractCodes. The verify route is signed with
// an empty body; without credentials only public channels are served.
func (f *FuturesWS) Subscribe(ctx context.Context, contractCodes []string, channels []schema.Channel) error {
	ts := auth.Timestamp(f.now())
	sig, err := auth.Sign(f.creds.Secret, ts, schema.MethodGet, auth.VerifyPath, "")
	if err != nil {
		return err
	}

	codes := contractCodes
	if codes == nil {
		codes = []string{}
	}

	logger.Info("EMX WS 订阅 %v: %v", channels, codes)
	return f.Send(ctx, subscribeMessage{
		Type:          "subscribe",
		ContractCodes: codes,
		Channels:      schema.ChannelNames(channels),
		Key:           f.creds.Key,
		Sig:           sig,
		Timestamp:     ts,
	})
}

// Unsubscribe leaves channels for every contract.
func (f *FuturesWS) Unsubscribe(ctx context.Context, channels []schema.Channel) error {
	logger.Info("EMX WS 退订 %v", channels)
	return f.Send(ctx, unsubscribeMessage{
		Type:          "unsubscribe",
		ContractCodes: []string{},
		Channels:      schema.ChannelNames(channels),
	})
}

// Receive returns the next frame as text. Cancelling ctx interrupts the wait.
func (f *FuturesWS) Receive(ctx context.Context) (string, error) {
	f.mu.Lock()
	conn, broken := f.conn, f.broken
	f.mu.Unlock()

	if conn == nil {
		return "", apierror.NewTransportError(errNotConnected)
	}
	if broken != nil {
		// gorilla 读超时后连接不可再用
		return "", apierror.NewTransportError(fmt.Errorf("connection unusable, close it: %w", broken))
	}
	if err := ctx.Err(); err != nil {
		return "", apierror.NewTransportError(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(f.readTimeout))
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := conn.ReadMessage()
	if err == nil {
		return string(data), nil
	}

	f.mu.Lock()
	if f.conn == conn {
		f.broken = err
	}
	f.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", apierror.NewTransportError(ctxErr)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		logger.Warn("EMX WS %s 内未收到消息", f.readTimeout)
		return "", &apierror.TimeoutError{Timeout: f.readTimeout}
	}
	logger.Error("EMX WS 接收失败: %v", err)
	return "", apierror.NewTransportError(err)
}

// redactSig keeps signatures out of debug logs.
func redactSig(message any, payload []byte) string {
	if m, ok := message.(subscribeMessage); ok {
		m.Sig = "<redacted>"
		if b, err := json.Marshal(m); err == nil {
			return string(b)
		}
	}
	return string(payload)
}
