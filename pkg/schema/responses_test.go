package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Decode(t *testing.T) {
	res := Result{StatusCode: 200, Body: `{"accounts":[{"trader_id":"t-1","alias":"main"}]}`}

	var accounts AccountsResponse
	require.NoError(t, res.Decode(&accounts))
	require.Len(t, accounts.Accounts, 1)
	assert.Equal(t, "t-1", accounts.Accounts[0].TraderID)
	assert.Equal(t, res.Body, res.String())

	bad := Result{StatusCode: 200, Body: "<html>"}
	assert.Error(t, bad.Decode(&accounts))
}

func TestOrderAck_DecodesDecimals(t *testing.T) {
	res := Result{StatusCode: 200, Body: `{
		"message": "create order",
		"order": {"order_id": "o-1", "contract_code": "BTCZ18", "type": "limit", "side": "buy",
		          "size": "1.00", "size_filled": "0", "price": "3500.5", "average_fill_price": null},
		"timestamp": "2018-12-01T00:00:00Z"}`}

	var ack OrderAck
	require.NoError(t, res.Decode(&ack))
	assert.Equal(t, "o-1", ack.Order.OrderID)
	assert.True(t, ack.Order.Size.Equal(decimal.NewFromInt(1)))
	require.NotNil(t, ack.Order.Price)
	assert.Equal(t, "3500.5", ack.Order.Price.String())
	assert.Nil(t, ack.Order.AverageFillPrice)
}

func TestBookResponse_Levels(t *testing.T) {
	book := BookResponse{
		ContractCode: "BTCZ18",
		Bids:         [][]string{{"3500.5", "10"}, {"3500", "2.5"}},
		Asks:         [][]string{{"3501", "1"}},
	}
	bids, asks, err := book.Levels()
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Len(t, asks, 1)
	assert.Equal(t, "2.5", bids[1].Quantity.String())
	assert.Equal(t, "3501", asks[0].Price.String())

	book.Asks = [][]string{{"3501"}}
	_, _, err = book.Levels()
	assert.Error(t, err)

	book.Asks = [][]string{{"x", "1"}}
	_, _, err = book.Levels()
	assert.Error(t, err)
}

func TestParseStreamMessage(t *testing.T) {
	msg, err := ParseStreamMessage(`{"type":"subscriptions","channels":[{"name":"ticker","contract_codes":["BTCZ18"]}]}`)
	require.NoError(t, err)
	assert.Equal(t, "subscriptions", msg.Type)
	require.Len(t, msg.Channels, 1)
	assert.Equal(t, []string{"BTCZ18"}, msg.Channels[0].ContractCodes)

	msg, err = ParseStreamMessage(`{"type":"update","channel":"ticker","data":{"last_price":"3500"}}`)
	require.NoError(t, err)
	assert.Equal(t, "ticker", msg.Channel)
	assert.JSONEq(t, `{"last_price":"3500"}`, string(msg.Data))

	_, err = ParseStreamMessage("not json")
	assert.Error(t, err)
}

func TestNewClientID(t *testing.T) {
	a, b := NewClientID(), NewClientID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, []string{"ticker", "orders"}, ChannelNames([]Channel{ChannelTicker, ChannelOrders}))
	assert.Empty(t, ChannelNames(nil))
}
