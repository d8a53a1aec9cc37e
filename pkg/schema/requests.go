package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kingsmao/emx-connector/pkg/apierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewOrderRequest is the body of POST /v1/orders.
type NewOrderRequest struct {
	ContractCode   string           `json:"contract_code" validate:"required"`
	Type           OrderType        `json:"type" validate:"required,oneof=market limit stop_market take_market stop_limit take_limit"`
	Side           OrderSide        `json:"side" validate:"required,oneof=buy sell"`
	Size           decimal.Decimal  `json:"size"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	StopPrice      *decimal.Decimal `json:"stop_price,omitempty"`
	StopTrigger    StopTrigger      `json:"stop_trigger,omitempty" validate:"omitempty,oneof=mark index last"`
	PegPriceType   PegPriceType     `json:"peg_price_type,omitempty" validate:"omitempty,oneof=trailing-stop trailing-stop-pct"`
	PegOffsetValue *decimal.Decimal `json:"peg_offset_value,omitempty"`
	ClientID       string           `json:"client_id,omitempty" validate:"omitempty,max=64"`
	ReduceOnly     bool             `json:"reduce_only"`
	PostOnly       bool             `json:"post_only"`
}

// Validate rejects orders the exchange would refuse for missing fields.
func (r *NewOrderRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := checkSizeAndPrices(r.Size, r.Price, r.StopPrice); err != nil {
		return err
	}
	if r.Type.NeedsPrice() && r.Price == nil {
		return &apierror.ValidationError{Field: "price", Message: "required for " + string(r.Type) + " orders"}
	}
	// pegged orders derive their trigger from peg_offset_value
	if r.Type.IsConditional() && r.StopPrice == nil && r.PegPriceType == "" {
		return &apierror.ValidationError{Field: "stop_price", Message: "required for " + string(r.Type) + " orders"}
	}
	if !r.Type.IsConditional() {
		if r.StopTrigger != "" {
			return &apierror.ValidationError{Field: "stop_trigger", Message: "only valid for stop and take orders"}
		}
		if r.PegPriceType != "" {
			return &apierror.ValidationError{Field: "peg_price_type", Message: "only valid for stop and take orders"}
		}
	}
	if r.PegOffsetValue != nil && r.PegPriceType == "" {
		return &apierror.ValidationError{Field: "peg_offset_value", Message: "requires peg_price_type"}
	}
	if r.PostOnly && r.Type == OrderTypeMarket {
		return &apierror.ValidationError{Field: "post_only", Message: "not valid for market orders"}
	}
	return nil
}

// ModifyOrderRequest is the body of PATCH /v1/orders/{order_id}.
type ModifyOrderRequest struct {
	Type      OrderType        `json:"type" validate:"required,oneof=market limit stop_market take_market stop_limit take_limit"`
	Side      OrderSide        `json:"side" validate:"required,oneof=buy sell"`
	Size      decimal.Decimal  `json:"size"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	StopPrice *decimal.Decimal `json:"stop_price,omitempty"`
}

// Validate checks the fields that are set. Prices are optional: an order
// keeps its current price when none is sent.
func (r *ModifyOrderRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return checkSizeAndPrices(r.Size, r.Price, r.StopPrice)
}

// CancelOrderRequest is the body of DELETE /v1/orders/{order_id}.
type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
}

// AliasRequest is the body of PUT /v1/accounts/{trader_id}/alias.
type AliasRequest struct {
	Alias string `json:"alias"`
}

// ListOrdersParams filters GET /v1/orders. Zero fields are omitted.
type ListOrdersParams struct {
	ContractCode string `json:"contract_code,omitempty"`
	Status       string `json:"status,omitempty"`
	Before       string `json:"before,omitempty"`
	After        string `json:"after,omitempty"`
}

// IsZero reports whether no filter is set.
func (p ListOrdersParams) IsZero() bool {
	return p == ListOrdersParams{}
}

// ListFillsParams filters GET /v1/fills. Zero fields are omitted.
type ListFillsParams struct {
	ContractCode string `json:"contract_code,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	Before       string `json:"before,omitempty"`
	After        string `json:"after,omitempty"`
}

func (p ListFillsParams) IsZero() bool {
	return p == ListFillsParams{}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "failed on " + fe.Tag()
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "oneof":
			msg = "must be one of: " + fe.Param()
		}
		return &apierror.ValidationError{Field: fe.Field(), Message: msg}
	}
	return &apierror.ValidationError{Message: err.Error()}
}

func checkSizeAndPrices(size decimal.Decimal, price, stopPrice *decimal.Decimal) error {
	if !size.IsPositive() {
		return &apierror.ValidationError{Field: "size", Message: "must be positive"}
	}
	if price != nil && !price.IsPositive() {
		return &apierror.ValidationError{Field: "price", Message: "must be positive"}
	}
	if stopPrice != nil && !stopPrice.IsPositive() {
		return &apierror.ValidationError{Field: "stop_price", Message: "must be positive"}
	}
	return nil
}
