package main

import (
	"context"

	"github.com/spf13/cobra"

	"stravan-client/client/dispatch"
)

func newSendCommand(g *globalFlags) *cobra.Command {
	var (
		cf          callFlags
		data        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "send ACTION",
		Short: "POST a raw body to an action",
		Example: `  stravan send upload --api 2 --secure -q token=... --data @ride.json
  echo '{"id":1}' | stravan send echo --data @-`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cf.options()
			if err != nil {
				return err
			}
			if contentType != "" {
				opts = append(opts, dispatch.WithContentType(contentType))
			}
			filter, err := newJQFilter(cf.jq)
			if err != nil {
				return err
			}
			body, err := readData(cmd, data)
			if err != nil {
				return err
			}

			return g.run(cmd, func(ctx context.Context, c *dispatch.Client) error {
				out, err := c.SendText(ctx, args[0], string(body), opts...)
				if err != nil {
					return err
				}
				return filter.print(ctx, cmd.OutOrStdout(), out)
			})
		},
	}

	cf.register(cmd.Flags())
	cmd.Flags().StringVar(&data, "data", "", "Body to send: literal text, @FILE or @- for stdin")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content-Type of the body (default application/json)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
