package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingsmao/emx-connector/pkg/interfaces"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

// contractArg normalizes a user supplied code. Unrecognized formats are
// passed through with a warning; the exchange has the final word.
func contractArg(raw string) string {
	c, err := schema.ParseContractCode(raw)
	if err != nil {
		logger.Warn("无法识别的合约代码 %q: %v", raw, err)
		return strings.TrimSpace(raw)
	}
	return c.Code
}

func (a *app) contractsCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"contract"},
		Short:   "Market data for contracts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if active {
				res, err := a.client.REST().GetActiveContracts(cmd.Context())
				return a.printResult(cmd, res, err)
			}
			res, err := a.client.REST().GetContracts(cmd.Context())
			return a.printResult(cmd, res, err)
		},
	}
	list.Flags().BoolVar(&active, "active", false, "only contracts open for trading")

	type route struct {
		use, short string
		call       func(interfaces.RESTClient, context.Context, string) (schema.Result, error)
	}
	routes := []route{
		{"get", "Contract details", interfaces.RESTClient.GetContract},
		{"funding", "Funding rate", interfaces.RESTClient.GetContractFunding},
		{"summary", "24h summary", interfaces.RESTClient.GetContractSummary},
		{"quote", "Best bid and ask", interfaces.RESTClient.GetContractQuote},
		{"book", "Order book", interfaces.RESTClient.GetContractBook},
	}

	cmd.AddCommand(list)
	for _, r := range routes {
		r := r
		cmd.AddCommand(&cobra.Command{
			Use:   r.use + " CONTRACT_CODE",
			Short: r.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := r.call(a.client.REST(), cmd.Context(), contractArg(args[0]))
				return a.printResult(cmd, res, err)
			},
		})
	}
	return cmd
}
