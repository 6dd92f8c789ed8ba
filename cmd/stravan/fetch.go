package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stravan-client/client/dispatch"
)

func newFetchCommand(g *globalFlags) *cobra.Command {
	var (
		cf   callFlags
		form []string
	)

	cmd := &cobra.Command{
		Use:   "fetch ACTION [ACTION...]",
		Short: "GET one or more actions concurrently",
		Long: `fetch despacha todas as actions ao mesmo tempo pelo mesmo Client;
no máximo POOL_SIZE ficam em voo. As respostas saem na ordem dos argumentos.

Com -f a chamada vira um POST de formulário.`,
		Example: `  stravan fetch rides/8384559
  stravan fetch rides -q athleteId=476912 --jq '.rides[].id'
  stravan fetch authentication/login --api 2 --secure -f email=me@x.com -f password=...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cf.options()
			if err != nil {
				return err
			}
			formParams, err := parseParams(form)
			if err != nil {
				return err
			}
			if len(formParams) > 0 {
				opts = append(opts, dispatch.WithFormParams(formParams))
			}
			filter, err := newJQFilter(cf.jq)
			if err != nil {
				return err
			}

			return g.run(cmd, func(ctx context.Context, c *dispatch.Client) error {
				results := make([]string, len(args))

				eg, egCtx := errgroup.WithContext(ctx)
				for i, action := range args {
					eg.Go(func() error {
						out, err := c.FetchText(egCtx, action, opts...)
						if err != nil {
							return fmt.Errorf("%s: %w", action, err)
						}
						results[i] = out
						return nil
					})
				}
				if err := eg.Wait(); err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				for _, out := range results {
					if err := filter.print(ctx, w, out); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cf.register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&form, "form", "f", nil, "Form field key=value (repeatable, sends a POST)")
	return cmd
}
