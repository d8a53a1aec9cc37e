package cli

import (
	"github.com/spf13/cobra"

	"github.com/kingsmao/emx-connector/pkg/schema"
)

func (a *app) accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Trading accounts under the API key",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List trading accounts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().GetAccounts(cmd.Context())
				return a.printResult(cmd, res, err)
			},
		},
		&cobra.Command{
			Use:   "balances TRADER_ID",
			Short: "Balances and margin requirements of one account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().GetBalances(cmd.Context(), args[0])
				return a.printResult(cmd, res, err)
			},
		},
		&cobra.Command{
			Use:   "alias TRADER_ID ALIAS",
			Short: "Rename an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().SetAccountAlias(cmd.Context(), args[0], args[1])
				return a.printResult(cmd, res, err)
			},
		},
	)
	return cmd
}

func (a *app) positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Open positions of every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.REST().GetPositions(cmd.Context())
			return a.printResult(cmd, res, err)
		},
	}
}

func (a *app) fillsCmd() *cobra.Command {
	var params schema.ListFillsParams

	cmd := &cobra.Command{
		Use:   "fills",
		Short: "List fills, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.ContractCode != "" {
				params.ContractCode = contractArg(params.ContractCode)
			}
			res, err := a.client.REST().ListFills(cmd.Context(), params)
			return a.printResult(cmd, res, err)
		},
	}
	cmd.Flags().StringVar(&params.ContractCode, "contract", "", "filter by contract code")
	cmd.Flags().StringVar(&params.OrderID, "order-id", "", "filter by order id")
	cmd.Flags().StringVar(&params.Before, "before", "", "only fills before this cursor")
	cmd.Flags().StringVar(&params.After, "after", "", "only fills after this cursor")
	return cmd
}

func (a *app) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"key"},
		Short:   "Manage API keys",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List API keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().ListKeys(cmd.Context())
				return a.printResult(cmd, res, err)
			},
		},
		&cobra.Command{
			Use:   "create",
			Short: "Create an API key; the secret is shown once",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().CreateKey(cmd.Context())
				return a.printResult(cmd, res, err)
			},
		},
		&cobra.Command{
			Use:   "delete KEY",
			Short: "Revoke an API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.REST().DeleteKey(cmd.Context(), args[0])
				return a.printResult(cmd, res, err)
			},
		},
	)
	return cmd
}
