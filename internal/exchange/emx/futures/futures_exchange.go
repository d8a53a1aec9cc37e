package futures

import (
	"errors"

	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/interfaces"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

// FuturesExchange bundles REST and WS for EMX futures.
type FuturesExchange struct {
	rest *FuturesREST
	ws   *FuturesWS
}

func NewFuturesExchange(creds auth.Credentials, restOpts []RESTOption, wsOpts []WSOption) *FuturesExchange {
	return &FuturesExchange{
		rest: NewFuturesREST(creds, restOpts...),
		ws:   NewFuturesWS(creds, wsOpts...),
	}
}

func (f *FuturesExchange) Name() schema.ExchangeName   { return schema.EMX }
func (f *FuturesExchange) Market() schema.MarketType   { return schema.FUTURES }
func (f *FuturesExchange) REST() interfaces.RESTClient { return f.rest }
func (f *FuturesExchange) WS() interfaces.WSConnector  { return f.ws }

// Close closes the stream and idle HTTP connections.
func (f *FuturesExchange) Close() error {
	return errors.Join(f.ws.Close(), f.rest.Close())
}

var _ interfaces.Exchange = (*FuturesExchange)(nil)
