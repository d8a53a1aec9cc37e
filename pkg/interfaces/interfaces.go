package interfaces

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingsmao/emx-connector/pkg/schema"
)

// WSConn abstracts websocket Conn for testability.
type WSConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	// WriteMessage writes a message of the given type with the given payload
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WSConnector defines WebSocket subscription behaviors.
// A connector serves one consumer; calls must not overlap.
type WSConnector interface {
	Connect(ctx context.Context) error
	Close() error

	// Send writes one JSON text frame.
	Send(ctx context.Context, message any) error

	// Subscribe authenticates with the verify signature and joins channels.
	Subscribe(ctx context.Context, contractCodes []string, channels []schema.Channel) error
	Unsubscribe(ctx context.Context, channels []schema.Channel) error

	// Receive blocks for the next text frame. When nothing arrives within
	// the read timeout it returns *apierror.TimeoutError and the connection
	// must be closed.
	Receive(ctx context.Context) (string, error)
}

// RESTClient defines HTTP APIs. Every call is a single attempt.
type RESTClient interface {
	// 行情
	GetContracts(ctx context.Context) (schema.Result, error)
	GetActiveContracts(ctx context.Context) (schema.Result, error)
	GetContract(ctx context.Context, contractCode string) (schema.Result, error)
	GetContractFunding(ctx context.Context, contractCode string) (schema.Result, error)
	GetContractSummary(ctx context.Context, contractCode string) (schema.Result, error)
	GetContractQuote(ctx context.Context, contractCode string) (schema.Result, error)
	GetContractBook(ctx context.Context, contractCode string) (schema.Result, error)

	// 账户
	GetAccounts(ctx context.Context) (schema.Result, error)
	GetBalances(ctx context.Context, traderID string) (schema.Result, error)
	SetAccountAlias(ctx context.Context, traderID, alias string) (schema.Result, error)
	GetPositions(ctx context.Context) (schema.Result, error)
	ListFills(ctx context.Context, params schema.ListFillsParams) (schema.Result, error)

	// API Key
	ListKeys(ctx context.Context) (schema.Result, error)
	CreateKey(ctx context.Context) (schema.Result, error)
	DeleteKey(ctx context.Context, key string) (schema.Result, error)

	// 订单
	ListOrders(ctx context.Context, params schema.ListOrdersParams) (schema.Result, error)
	CreateOrder(ctx context.Context, req schema.NewOrderRequest) (schema.Result, error)
	ModifyOrder(ctx context.Context, orderID string, req schema.ModifyOrderRequest) (schema.Result, error)
	CancelOrder(ctx context.Context, orderID string) (schema.Result, error)
	CancelAllOrders(ctx context.Context, contractCode string) (schema.Result, error)
}

// Exchange bundles market type and available clients.
type Exchange interface {
	Name() schema.ExchangeName
	Market() schema.MarketType
	REST() RESTClient
	WS() WSConnector
}

// WSShim adapts real *websocket.Conn to WSConn.
type WSShim struct{ *websocket.Conn }

func (w WSShim) ReadMessage() (int, []byte, error)  { return w.Conn.ReadMessage() }
func (w WSShim) SetReadDeadline(t time.Time) error  { return w.Conn.SetReadDeadline(t) }
func (w WSShim) SetWriteDeadline(t time.Time) error { return w.Conn.SetWriteDeadline(t) }
func (w WSShim) Close() error                       { return w.Conn.Close() }
func (w WSShim) WriteMessage(messageType int, data []byte) error {
	return w.Conn.WriteMessage(messageType, data)
}
