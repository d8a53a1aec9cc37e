// Package cli implements the emxctl command tree.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kingsmao/emx-connector/internal/config"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
	"github.com/kingsmao/emx-connector/pkg/sdk"
)

type app struct {
	configPath string
	logLevel   string
	pretty     bool

	client *sdk.SDK
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "emxctl",
		Short: "Command line client for the EMX derivatives exchange",
		Long: `emxctl calls the EMX REST API and streams WebSocket channels.

Credentials and endpoints come from emx.yaml (or --config) and EMX_* environment
variables, e.g. EMX_API_KEY, EMX_API_SECRET, EMX_REST_BASE_URL.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file path (default: ./emx.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.pretty, "pretty", false, "indent JSON responses")

	root.AddCommand(
		a.contractsCmd(),
		a.accountsCmd(),
		a.positionsCmd(),
		a.fillsCmd(),
		a.keysCmd(),
		a.ordersCmd(),
		a.streamCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	cfg.Log.Apply()

	a.client, err = sdk.New(cfg)
	return err
}

func (a *app) close() {
	if a.client == nil {
		return
	}
	if err := a.client.Close(); err != nil {
		logger.Warn("关闭客户端失败: %v", err)
	}
}

// run executes the tree and releases the client afterwards. nil args and
// out mean os.Args and stdout.
func (a *app) run(ctx context.Context, args []string, out io.Writer) error {
	root := a.rootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	if out != nil {
		root.SetOut(out)
	}
	defer a.close()
	return root.ExecuteContext(ctx)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := (&app{}).run(ctx, nil, nil)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// print writes the response body, indented when --pretty is set.
func (a *app) print(cmd *cobra.Command, res schema.Result) error {
	out := cmd.OutOrStdout()
	if a.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(res.Body), "", "  "); err == nil {
			_, err = fmt.Fprintln(out, buf.String())
			return err
		}
	}
	_, err := fmt.Fprintln(out, res.Body)
	return err
}

// printResult adapts a REST call to a cobra RunE body.
func (a *app) printResult(cmd *cobra.Command, res schema.Result, err error) error {
	if err != nil {
		return err
	}
	return a.print(cmd, res)
}
