package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
)

func (a *app) streamCmd() *cobra.Command {
	var (
		contracts []string
		channels  []string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Subscribe to channels and print frames as they arrive",
		Long: `stream subscribes to the given channels and prints each frame on its own line.
It stops after --count frames, on Ctrl+C, or when no frame arrives within ws.read_timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws := a.client.WS()
			if err := ws.Connect(ctx); err != nil {
				return err
			}
			defer ws.Close()

			codes := make([]string, len(contracts))
			for i, c := range contracts {
				codes[i] = contractArg(c)
			}
			chans := make([]schema.Channel, len(channels))
			for i, c := range channels {
				chans[i] = schema.Channel(c)
			}
			if err := ws.Subscribe(ctx, codes, chans); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for n := 0; count <= 0 || n < count; n++ {
				frame, err := ws.Receive(ctx)
				switch {
				case err == nil:
				case apierror.IsTimeout(err):
					logger.Warn("行情流空闲，结束: %v", err)
					return nil
				case ctx.Err() != nil && errors.Is(err, ctx.Err()):
					logger.Info("收到中断信号，结束订阅")
					return nil
				default:
					return err
				}

				if msg, perr := schema.ParseStreamMessage(frame); perr == nil {
					logger.WithFields(logrus.Fields{"type": msg.Type, "channel": msg.Channel}).Debug("EMX WS 收到消息")
				}
				if _, err := fmt.Fprintln(out, frame); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&contracts, "contract", nil, "contract codes (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&channels, "channel", []string{string(schema.ChannelTicker)},
		"channels: ticker, level2, trading, auction, orders, positions, balances")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many frames (0 = unlimited)")
	return cmd
}
