package futures

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

const (
	DefaultBaseURL = "http://api.testnet.emx.com"
	DefaultTimeout = 10 * time.Second

	apiV1Contracts       = "/v1/contracts"
	apiV1ContractsActive = "/v1/contracts/active"
	apiV1Accounts        = "/v1/accounts"
	apiV1Positions       = "/v1/positions"
	apiV1Fills           = "/v1/fills"
	apiV1Keys            = "/v1/keys"
	apiV1Orders          = "/v1/orders"
)

// FuturesREST implements RESTClient for EMX futures and perpetual contracts.
// Headers are built per call, so one instance may be shared by goroutines.
type FuturesREST struct {
	http  *resty.Client
	creds auth.Credentials
	now   func() time.Time
}

// RESTOption customizes FuturesREST.
type RESTOption func(*FuturesREST)

func WithBaseURL(baseURL string) RESTOption {
	return func(f *FuturesREST) { f.http.SetBaseURL(baseURL) }
}

func WithTimeout(d time.Duration) RESTOption {
	return func(f *FuturesREST) { f.http.SetTimeout(d) }
}

// WithProxy routes every request through proxyURL.
func WithProxy(proxyURL string) RESTOption {
	return func(f *FuturesREST) {
		if proxyURL != "" {
			f.http.SetProxy(proxyURL)
		}
	}
}

// WithClock replaces time.Now as the signature timestamp source.
func WithClock(now func() time.Time) RESTOption {
	return func(f *FuturesREST) { f.now = now }
}

func NewFuturesREST(creds auth.Credentials, opts ...RESTOption) *FuturesREST {
	f := &FuturesREST{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetAllowGetMethodPayload(true). // 订单与成交查询使用 GET + JSON body
			SetLogger(logger.Logrus()),
		creds: creds,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Close releases idle connections held by the HTTP client.
func (f *FuturesREST) Close() error {
	f.http.GetClient().CloseIdleConnections()
	return nil
}

// do performs one request. path must already be escaped; query is appended
// to it and both are signed exactly as sent.
func (f *FuturesREST) do(ctx context.Context, method, path string, query url.Values, body any, authed bool) (schema.Result, error) {
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	payload, err := auth.CanonicalBody(body)
	if err != nil {
		return schema.Result{}, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}

	headers := map[string]string{auth.HeaderContentType: auth.ContentTypeJSON}
	if authed {
		// 签名失败时不发出任何请求
		headers, err = f.creds.Headers(auth.Timestamp(f.now()), method, target, payload)
		if err != nil {
			return schema.Result{}, err
		}
	}

	req := f.http.R().SetContext(ctx).SetHeaders(headers)
	if payload != "" {
		req.SetBody([]byte(payload))
	}

	logger.WithFields(logrus.Fields{"method": method, "path": target, "authed": authed}).Debug("EMX REST 请求")

	r, err := req.Execute(method, target)
	if err != nil {
		logger.Debug("EMX REST %s %s 传输失败: %v", method, target, err)
		return schema.Result{}, apierror.NewTransportError(err)
	}

	// 保存原始响应结果用于调试
	rawResponse := r.String()
	logger.Debug("EMX REST %s %s 原始响应 [%d]: %s", method, target, r.StatusCode(), rawResponse)

	if r.StatusCode() < 200 || r.StatusCode() >= 300 {
		return schema.Result{}, apierror.NewStatusError(r.StatusCode(), r.Status(), rawResponse)
	}
	return schema.Result{StatusCode: r.StatusCode(), Body: rawResponse}, nil
}

func contractPath(code, suffix string) string {
	return apiV1Contracts + "/" + url.PathEscape(code) + suffix
}

func requireArg(field, value string) error {
	if value == "" {
		return &apierror.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// Market data

func (f *FuturesREST) GetContracts(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodGet, apiV1Contracts, nil, nil, false)
}

func (f *FuturesREST) GetActiveContracts(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodGet, apiV1ContractsActive, nil, nil, false)
}

func (f *FuturesREST) GetContract(ctx context.Context, contractCode string) (schema.Result, error) {
	return f.contractRoute(ctx, contractCode, "")
}

func (f *FuturesREST) GetContractFunding(ctx context.Context, contractCode string) (schema.Result, error) {
	return f.contractRoute(ctx, contractCode, "/funding")
}

func (f *FuturesREST) GetContractSummary(ctx context.Context, contractCode string) (schema.Result, error) {
	return f.contractRoute(ctx, contractCode, "/summary")
}

func (f *FuturesREST) GetContractQuote(ctx context.Context, contractCode string) (schema.Result, error) {
	return f.contractRoute(ctx, contractCode, "/quote")
}

func (f *FuturesREST) GetContractBook(ctx context.Context, contractCode string) (schema.Result, error) {
	return f.contractRoute(ctx, contractCode, "/book")
}

func (f *FuturesREST) contractRoute(ctx context.Context, contractCode, suffix string) (schema.Result, error) {
	if err := requireArg("contract_code", contractCode); err != nil {
		return schema.Result{}, err
	}
	return f.do(ctx, schema.MethodGet, contractPath(contractCode, suffix), nil, nil, false)
}

// Accounts

func (f *FuturesREST) GetAccounts(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodGet, apiV1Accounts, nil, nil, true)
}

func (f *FuturesREST) GetBalances(ctx context.Context, traderID string) (schema.Result, error) {
	if err := requireArg("trader_id", traderID); err != nil {
		return schema.Result{}, err
	}
	return f.do(ctx, schema.MethodGet, apiV1Accounts+"/"+url.PathEscape(traderID), nil, nil, true)
}

func (f *FuturesREST) SetAccountAlias(ctx context.Context, traderID, alias string) (schema.Result, error) {
	if err := requireArg("trader_id", traderID); err != nil {
		return schema.Result{}, err
	}
	path := apiV1Accounts + "/" + url.PathEscape(traderID) + "/alias"
	return f.do(ctx, schema.MethodPut, path, nil, schema.AliasRequest{Alias: alias}, true)
}

func (f *FuturesREST) GetPositions(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodGet, apiV1Positions, nil, nil, true)
}

func (f *FuturesREST) ListFills(ctx context.Context, params schema.ListFillsParams) (schema.Result, error) {
	var body any
	if !params.IsZero() {
		body = params
	}
	return f.do(ctx, schema.MethodGet, apiV1Fills, nil, body, true)
}

// API keys

func (f *FuturesREST) ListKeys(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodGet, apiV1Keys, nil, nil, true)
}

func (f *FuturesREST) CreateKey(ctx context.Context) (schema.Result, error) {
	return f.do(ctx, schema.MethodPost, apiV1Keys, nil, nil, true)
}

func (f *FuturesREST) DeleteKey(ctx context.Context, key string) (schema.Result, error) {
	if err := requireArg("key", key); err != nil {
		return schema.Result{}, err
	}
	return f.do(ctx, schema.MethodDelete, apiV1Keys+"/"+url.PathEscape(key), nil, nil, true)
}

// Orders

func (f *FuturesREST) ListOrders(ctx context.Context, params schema.ListOrdersParams) (schema.Result, error) {
	var body any
	if !params.IsZero() {
		body = params
	}
	return f.do(ctx, schema.MethodGet, apiV1Orders, nil, body, true)
}

func (f *FuturesREST) CreateOrder(ctx context.Context, req schema.NewOrderRequest) (schema.Result, error) {
	if err := req.Validate(); err != nil {
		return schema.Result{}, err
	}
	return f.do(ctx, schema.MethodPost, apiV1Orders, nil, req, true)
}

func (f *FuturesREST) ModifyOrder(ctx context.Context, orderID string, req schema.ModifyOrderRequest) (schema.Result, error) {
	if err := requireArg("order_id", orderID); err != nil {
		return schema.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return schema.Result{}, err
	}
	return f.do(ctx, schema.MethodPatch, apiV1Orders+"/"+url.PathEscape(orderID), nil, req, true)
}

func (f *FuturesREST) CancelOrder(ctx context.Context, orderID string) (schema.Result, error) {
	if err := requireArg("order_id", orderID); err != nil {
		return schema.Result{}, err
	}
	path := apiV1Orders + "/" + url.PathEscape(orderID)
	return f.do(ctx, schema.MethodDelete, path, nil, schema.CancelOrderRequest{OrderID: orderID}, true)
}

// CancelAllOrders cancels every open order, or only those of contractCode when set.
func (f *FuturesREST) CancelAllOrders(ctx context.Context, contractCode string) (schema.Result, error) {
	var query url.Values
	if contractCode != "" {
		query = url.Values{"contract_code": {contractCode}}
	}
	return f.do(ctx, schema.MethodDelete, apiV1Orders, query, nil, true)
}
