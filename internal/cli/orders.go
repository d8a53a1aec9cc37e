package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

// orderFlags holds the raw flag values shared by create and modify.
type orderFlags struct {
	orderType string
	side      string
	size      string
	price     string
	stopPrice string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orderType, "type", "", "market, limit, stop_market, take_market, stop_limit or take_limit")
	cmd.Flags().StringVar(&f.side, "side", "", "buy or sell")
	cmd.Flags().StringVar(&f.size, "size", "", "order size")
	cmd.Flags().StringVar(&f.price, "price", "", "limit price")
	cmd.Flags().StringVar(&f.stopPrice, "stop-price", "", "trigger price for stop and take orders")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("size")
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &apierror.ValidationError{Field: field, Message: fmt.Sprintf("not a number: %q", raw)}
	}
	return d, nil
}

// optionalDecimal returns nil for an unset flag.
func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *orderFlags) modifyRequest() (schema.ModifyOrderRequest, error) {
	size, err := parseDecimal("size", f.size)
	if err != nil {
		return schema.ModifyOrderRequest{}, err
	}
	price, err := optionalDecimal("price", f.price)
	if err != nil {
		return schema.ModifyOrderRequest{}, err
	}
	stopPrice, err := optionalDecimal("stop_price", f.stopPrice)
	if err != nil {
		return schema.ModifyOrderRequest{}, err
	}
	return schema.ModifyOrderRequest{
		Type:      schema.OrderType(f.orderType),
		Side:      schema.OrderSide(f.side),
		Size:      size,
		Price:     price,
		StopPrice: stopPrice,
	}, nil
}

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Create, modify, cancel and list orders",
	}
	cmd.AddCommand(
		a.listOrdersCmd(),
		a.createOrderCmd(),
		a.modifyOrderCmd(),
		a.cancelOrderCmd(),
		a.cancelAllCmd(),
	)
	return cmd
}

func (a *app) listOrdersCmd() *cobra.Command {
	var params schema.ListOrdersParams
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.ContractCode != "" {
				params.ContractCode = contractArg(params.ContractCode)
			}
			res, err := a.client.REST().ListOrders(cmd.Context(), params)
			return a.printResult(cmd, res, err)
		},
	}
	cmd.Flags().StringVar(&params.ContractCode, "contract", "", "filter by contract code")
	cmd.Flags().StringVar(&params.Status, "status", "", "filter by order status")
	cmd.Flags().StringVar(&params.Before, "before", "", "only orders before this cursor")
	cmd.Flags().StringVar(&params.After, "after", "", "only orders after this cursor")
	return cmd
}

func (a *app) createOrderCmd() *cobra.Command {
	var (
		flags        orderFlags
		contract     string
		stopTrigger  string
		pegPriceType string
		pegOffset    string
		clientID     string
		reduceOnly   bool
		postOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place a new order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.modifyRequest()
			if err != nil {
				return err
			}
			offset, err := optionalDecimal("peg_offset_value", pegOffset)
			if err != nil {
				return err
			}
			if clientID == "" {
				clientID = schema.NewClientID()
			}

			req := schema.NewOrderRequest{
				ContractCode:   contractArg(contract),
				Type:           base.Type,
				Side:           base.Side,
				Size:           base.Size,
				Price:          base.Price,
				StopPrice:      base.StopPrice,
				StopTrigger:    schema.StopTrigger(stopTrigger),
				PegPriceType:   schema.PegPriceType(pegPriceType),
				PegOffsetValue: offset,
				ClientID:       clientID,
				ReduceOnly:     reduceOnly,
				PostOnly:       postOnly,
			}
			res, err := a.client.REST().CreateOrder(cmd.Context(), req)
			return a.printResult(cmd, res, err)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&contract, "contract", "", "contract code, e.g. BTCZ18")
	cmd.Flags().StringVar(&stopTrigger, "stop-trigger", "", "mark, index or last")
	cmd.Flags().StringVar(&pegPriceType, "peg-price-type", "", "trailing-stop or trailing-stop-pct")
	cmd.Flags().StringVar(&pegOffset, "peg-offset", "", "trailing offset value")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client order id (default: random UUID)")
	cmd.Flags().BoolVar(&reduceOnly, "reduce-only", false, "only reduce an existing position")
	cmd.Flags().BoolVar(&postOnly, "post-only", false, "reject if the order would take liquidity")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func (a *app) modifyOrderCmd() *cobra.Command {
	var flags orderFlags
	cmd := &cobra.Command{
		Use:   "modify ORDER_ID",
		Short: "Change type, side, size or prices of an open order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.modifyRequest()
			if err != nil {
				return err
			}
			res, err := a.client.REST().ModifyOrder(cmd.Context(), args[0], req)
			return a.printResult(cmd, res, err)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) cancelOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.REST().CancelOrder(cmd.Context(), args[0])
			return a.printResult(cmd, res, err)
		},
	}
}

func (a *app) cancelAllCmd() *cobra.Command {
	var contract string
	cmd := &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel every open order, optionally for one contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contract != "" {
				contract = contractArg(contract)
			}
			res, err := a.client.REST().CancelAllOrders(cmd.Context(), contract)
			return a.printResult(cmd, res, err)
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "only cancel orders of this contract")
	return cmd
}
