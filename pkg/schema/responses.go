package schema

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Result is a successful REST response: the status code and the raw body text.
type Result struct {
	StatusCode int
	Body       string
}

// Decode unmarshals the body into v.
func (r Result) Decode(v any) error {
	if err := json.Unmarshal([]byte(r.Body), v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (r Result) String() string {
	return r.Body
}

// EMX API Response Types

// Contract describes one tradable contract.
type Contract struct {
	ContractCode          string          `json:"contract_code"`
	Type                  string          `json:"type"`
	UnderlyingAsset       string          `json:"underlying_asset"`
	QuoteCurrency         string          `json:"quote_currency"`
	Expires               string          `json:"expires,omitempty"`
	Status                string          `json:"status,omitempty"`
	MinimumPriceIncrement decimal.Decimal `json:"minimum_price_increment"`
	MinimumSizeIncrement  decimal.Decimal `json:"minimum_size_increment"`
	InitialMarginRate     decimal.Decimal `json:"initial_margin_rate"`
	MaintenanceMarginRate decimal.Decimal `json:"maintenance_margin_rate"`
}

// ContractsResponse represents GET /v1/contracts.
type ContractsResponse struct {
	Contracts []Contract `json:"contracts"`
}

// FundingResponse represents GET /v1/contracts/{code}/funding.
type FundingResponse struct {
	ContractCode    string          `json:"contract_code"`
	FundingRate     decimal.Decimal `json:"funding_rate"`
	NextFundingTime string          `json:"next_funding_time,omitempty"`
	Timestamp       string          `json:"timestamp,omitempty"`
}

// SummaryResponse represents GET /v1/contracts/{code}/summary.
type SummaryResponse struct {
	ContractCode string          `json:"contract_code"`
	LastPrice    decimal.Decimal `json:"last_price"`
	MarkPrice    decimal.Decimal `json:"mark_price"`
	IndexPrice   decimal.Decimal `json:"index_price"`
	Volume24h    decimal.Decimal `json:"volume_24h"`
	OpenInterest decimal.Decimal `json:"open_interest"`
	Timestamp    string          `json:"timestamp,omitempty"`
}

// QuoteResponse represents GET /v1/contracts/{code}/quote.
type QuoteResponse struct {
	ContractCode string          `json:"contract_code"`
	Bid          decimal.Decimal `json:"bid"`
	BidSize      decimal.Decimal `json:"bid_size"`
	Ask          decimal.Decimal `json:"ask"`
	AskSize      decimal.Decimal `json:"ask_size"`
	Timestamp    string          `json:"timestamp,omitempty"`
}

// BookResponse represents GET /v1/contracts/{code}/book.
// Levels are [price, size] pairs.
type BookResponse struct {
	ContractCode string     `json:"contract_code"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
	Timestamp    string     `json:"timestamp,omitempty"`
}

// Levels converts raw bid and ask pairs into PriceLevel slices.
func (b BookResponse) Levels() (bids, asks []PriceLevel, err error) {
	if bids, err = toLevels(b.Bids); err != nil {
		return nil, nil, fmt.Errorf("parse bids: %w", err)
	}
	if asks, err = toLevels(b.Asks); err != nil {
		return nil, nil, fmt.Errorf("parse asks: %w", err)
	}
	return bids, asks, nil
}

func toLevels(raw [][]string) ([]PriceLevel, error) {
	levels := make([]PriceLevel, 0, len(raw))
	for i, lv := range raw {
		if len(lv) < 2 {
			return nil, fmt.Errorf("level %d: want [price, size], got %d fields", i, len(lv))
		}
		price, err := decimal.NewFromString(lv[0])
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		qty, err := decimal.NewFromString(lv[1])
		if err != nil {
			return nil, fmt.Errorf("level %d size: %w", i, err)
		}
		levels = append(levels, PriceLevel{Price: price, Quantity: qty})
	}
	return levels, nil
}

// Account is one trader account under the API key.
type Account struct {
	TraderID string `json:"trader_id"`
	Alias    string `json:"alias"`
}

// AccountsResponse represents GET /v1/accounts.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// Balance represents GET /v1/accounts/{trader_id}.
type Balance struct {
	InitialMarginRequired     decimal.Decimal `json:"initial_margin_required"`
	MaintenanceMarginRequired decimal.Decimal `json:"maintenance_margin_required"`
	UnrealizedProfit          decimal.Decimal `json:"unrealized_profit"`
	NetLiquidationValue       decimal.Decimal `json:"net_liquidation_value"`
	AvailableFunds            decimal.Decimal `json:"available_funds"`
	ExcessLiquidity           decimal.Decimal `json:"excess_liquidity"`
	Holds                     decimal.Decimal `json:"holds"`
}

// Position is an open position in one contract.
type Position struct {
	TraderID          string          `json:"trader_id"`
	ContractCode      string          `json:"contract_code"`
	Quantity          decimal.Decimal `json:"quantity"`
	MarkingPrice      decimal.Decimal `json:"marking_price"`
	MarkingTime       string          `json:"marking_time,omitempty"`
	AverageEntryPrice decimal.Decimal `json:"average_entry_price"`
	Cost              decimal.Decimal `json:"cost"`
	DayClosedPL       decimal.Decimal `json:"day_closed_pl"`
	OpenPL            decimal.Decimal `json:"open_pl"`
}

// PositionsResponse represents GET /v1/positions.
type PositionsResponse struct {
	Positions []Position `json:"positions"`
}

// Order is an order as reported by the exchange.
type Order struct {
	OrderID          string           `json:"order_id"`
	ClientID         string           `json:"client_id,omitempty"`
	ContractCode     string           `json:"contract_code"`
	Type             OrderType        `json:"type"`
	Side             OrderSide        `json:"side"`
	Status           string           `json:"status,omitempty"`
	Size             decimal.Decimal  `json:"size"`
	SizeFilled       decimal.Decimal  `json:"size_filled"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	StopPrice        *decimal.Decimal `json:"stop_price,omitempty"`
	AverageFillPrice *decimal.Decimal `json:"average_fill_price,omitempty"`
	Timestamp        string           `json:"timestamp,omitempty"`
}

// OrdersResponse represents GET /v1/orders.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// OrderAck represents POST /v1/orders.
type OrderAck struct {
	Message   string `json:"message"`
	Order     Order  `json:"order"`
	Timestamp string `json:"timestamp"`
}

// OrderIDAck represents PATCH and DELETE on /v1/orders/{order_id}.
type OrderIDAck struct {
	Message   string `json:"message"`
	OrderID   string `json:"order_id"`
	Timestamp string `json:"timestamp"`
}

// CancelAllAck represents DELETE /v1/orders.
type CancelAllAck struct {
	Message      string `json:"message"`
	ContractCode string `json:"contract_code,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Fill is one execution against an order.
type Fill struct {
	FillID       string          `json:"fill_id"`
	OrderID      string          `json:"order_id"`
	ContractCode string          `json:"contract_code"`
	Side         OrderSide       `json:"side"`
	Size         decimal.Decimal `json:"size"`
	Price        decimal.Decimal `json:"price"`
	Fee          decimal.Decimal `json:"fee"`
	Liquidity    string          `json:"liquidity,omitempty"`
	Timestamp    string          `json:"timestamp,omitempty"`
}

// FillsResponse represents GET /v1/fills.
type FillsResponse struct {
	Fills []Fill `json:"fills"`
}

// APIKey is an API key. Secret is only returned on creation.
type APIKey struct {
	Key     string `json:"key"`
	Secret  string `json:"secret,omitempty"`
	Message string `json:"message,omitempty"`
}

// KeysResponse represents GET /v1/keys.
type KeysResponse struct {
	Keys []APIKey `json:"keys"`
}

// StreamMessage is the envelope shared by every stream frame.
// Data is left raw; channels define their own payloads.
type StreamMessage struct {
	Type         string          `json:"type"`
	Channel      string          `json:"channel,omitempty"`
	ContractCode string          `json:"contract_code,omitempty"`
	Action       string          `json:"action,omitempty"`
	Channels     []ChannelInfo   `json:"channels,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// ChannelInfo lists active subscriptions in a "subscriptions" frame.
type ChannelInfo struct {
	Name          string   `json:"name"`
	ContractCodes []string `json:"contract_codes"`
}

// ParseStreamMessage decodes the envelope of one stream frame.
func ParseStreamMessage(frame string) (StreamMessage, error) {
	var msg StreamMessage
	if err := json.Unmarshal([]byte(frame), &msg); err != nil {
		return StreamMessage{}, fmt.Errorf("parse stream frame: %w", err)
	}
	return msg, nil
}
