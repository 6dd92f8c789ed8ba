package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"stravan-client/client/config"
	"stravan-client/client/dispatch"
	"stravan-client/client/dispatch/infra"
	"stravan-client/client/logging"
)

type globalFlags struct {
	configPath string
	logLevel   string
	metrics    bool
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "stravan",
		Short: "stravan - cliente da API Strava com concorrência limitada",
		Long: `stravan despacha chamadas à API Strava (v1 e v2) através de um pool
de admissão de tamanho fixo (STRAVAN_POOL_SIZE).

Configuração: padrões -> arquivo YAML (--config ou STRAVAN_CONFIG_FILE)
-> variáveis STRAVAN_*.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.metrics, "metrics", false, "Print dispatch stats on exit")

	cmd.AddCommand(newFetchCommand(g), newSendCommand(g))
	return cmd
}

// run carrega a configuração, monta o Client, executa fn e, com --metrics,
// imprime as estatísticas em stderr.
func (g *globalFlags) run(cmd *cobra.Command, fn func(ctx context.Context, c *dispatch.Client) error) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.metrics && cfg.StatsBackend == config.StatsNone {
		cfg.StatsBackend = config.StatsMemory
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := dispatch.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	runErr := fn(ctx, c)
	if g.metrics {
		if err := dumpMetrics(cmd.ErrOrStderr(), c); err != nil {
			logger.Warn(ctx, "metrics dump failed", "error", err.Error())
		}
	}
	return runErr
}

func dumpMetrics(w io.Writer, c *dispatch.Client) error {
	if gatherer := c.Gatherer(); gatherer != nil {
		mfs, err := gatherer.Gather()
		if err != nil {
			return err
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				return err
			}
		}
		return nil
	}

	mem, ok := c.Stats().(*infra.MemoryStatsStore)
	if !ok {
		return nil
	}
	t := mem.Total()
	fmt.Fprintf(w, "total ok=%d transport_failure=%d other=%d\n", t.OK, t.TransportFailure, t.Other)

	routes := mem.ByRoute()
	keys := make([]string, 0, len(routes))
	for k := range routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r := routes[k]
		fmt.Fprintf(w, "route %q ok=%d transport_failure=%d other=%d\n", k, r.OK, r.TransportFailure, r.Other)
	}
	return nil
}

// readData resolve --data: "@arquivo" lê o arquivo, "@-" lê stdin, o resto é literal.
func readData(cmd *cobra.Command, data string) ([]byte, error) {
	if len(data) < 2 || data[0] != '@' {
		return []byte(data), nil
	}
	if data == "@-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(data[1:])
}
