package schema

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeName defines supported exchange.
type ExchangeName string

const (
	EMX ExchangeName = "emx"
)

// MarketType categorizes market segments.
type MarketType string

const (
	FUTURES MarketType = "futures" // 期货与永续合约
)

// HTTP verbs accepted by the signer.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
	MethodPut    = "PUT"
)

// OrderSide defines the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"  // 买单
	OrderSideSell OrderSide = "sell" // 卖单
)

// OrderType defines the type of an order.
type OrderType string

const (
	OrderTypeMarket     OrderType = "market"      // 市价单
	OrderTypeLimit      OrderType = "limit"       // 限价单
	OrderTypeStopMarket OrderType = "stop_market" // 止损市价单
	OrderTypeTakeMarket OrderType = "take_market" // 止盈市价单
	OrderTypeStopLimit  OrderType = "stop_limit"  // 止损限价单
	OrderTypeTakeLimit  OrderType = "take_limit"  // 止盈限价单
)

// NeedsPrice reports whether the order type rests at a limit price.
func (t OrderType) NeedsPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLimit || t == OrderTypeTakeLimit
}

// IsConditional reports whether the order type waits for a trigger price.
func (t OrderType) IsConditional() bool {
	switch t {
	case OrderTypeStopMarket, OrderTypeTakeMarket, OrderTypeStopLimit, OrderTypeTakeLimit:
		return true
	}
	return false
}

// StopTrigger selects the reference price a stop/take order watches.
type StopTrigger string

const (
	StopTriggerMark  StopTrigger = "mark"
	StopTriggerIndex StopTrigger = "index"
	StopTriggerLast  StopTrigger = "last"
)

// PegPriceType defines how a pegged trigger follows the reference price.
type PegPriceType string

const (
	PegTrailingStop    PegPriceType = "trailing-stop"
	PegTrailingStopPct PegPriceType = "trailing-stop-pct"
)

// Channel names a stream channel. Values are passed through untouched.
type Channel string

const (
	ChannelTicker    Channel = "ticker"
	ChannelLevel2    Channel = "level2"
	ChannelTrading   Channel = "trading"
	ChannelAuction   Channel = "auction"
	ChannelOrders    Channel = "orders"
	ChannelPositions Channel = "positions"
	ChannelBalances  Channel = "balances"
)

// ChannelNames converts typed channels for the wire.
func ChannelNames(channels []Channel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = string(c)
	}
	return out
}

// PriceLevel represents a single order book level.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewClientID returns a random client order id.
func NewClientID() string {
	return uuid.NewString()
}
