// cbselect fetches the convertible-bond cross-section, values every bond,
// and runs the selection strategies.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/config"
	"github.com/meenmo/cblib/curve"
	"github.com/meenmo/cblib/marketdata"
	"github.com/meenmo/cblib/marketdata/eastmoney"
	"github.com/meenmo/cblib/report"
	"github.com/meenmo/cblib/strategy"
	"github.com/meenmo/cblib/valuation"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cbselect",
	Short: "Convertible bond valuation and selection",
	Long: `cbselect values the CN convertible-bond cross-section (conversion
premium, YTM, credit-discounted bond floor, option decomposition) and
ranks it under the configured selection strategies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		logger = valuation.DefaultLogger(log.ParseLevel(level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(reportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cbselect %s (%s)\n", version, commit)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the comparison table and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := fetchRecords(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Value the cross-section and write strategy selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := runPipeline(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		out := cfg.OutputFile
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := rep.WriteCSV(f); err != nil {
			return err
		}
		logger.Info().Str("file", out).Msg("selection written")
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Value the cross-section and print a Markdown report",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := runPipeline(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return rep.WriteJSON(os.Stdout)
		}
		return rep.WriteMarkdown(os.Stdout)
	},
}

func init() {
	for _, c := range []*cobra.Command{selectCmd, reportCmd} {
		c.Flags().String("strategies", "", "comma-separated strategy names (default: all)")
	}
	reportCmd.Flags().Bool("json", false, "emit JSON instead of Markdown")
}

func fetchRecords(ctx context.Context) ([]marketdata.BondRecord, error) {
	client := eastmoney.NewClient(
		eastmoney.WithLogger(logger),
		eastmoney.WithRetries(cfg.Fetch.MaxRetries, cfg.Fetch.RetryInterval),
		eastmoney.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
	)
	records, err := client.FetchComparison(ctx)
	if err != nil {
		return nil, err
	}

	valid := records[:0]
	for i := range records {
		records[i].ApplyCovenantDefaults(cfg.Valuation.CallTriggerRatio, cfg.Valuation.PutTriggerRatio)
		if err := records[i].Validate(); err != nil {
			logger.Debug().Err(err).Msg("record dropped")
			continue
		}
		valid = append(valid, records[i])
	}
	return valid, nil
}

func runPipeline(ctx context.Context, cmd *cobra.Command) (report.Report, error) {
	records, err := fetchRecords(ctx)
	if err != nil {
		return report.Report{}, err
	}

	engine := valuation.New(curve.DefaultCurve(cfg.Valuation.RiskFreeRate), valuation.Params{
		RiskFreeRate:        cfg.Valuation.RiskFreeRate,
		Volatility:          cfg.Valuation.DefaultVolatility * cfg.Valuation.VolatilityAdjustment,
		RevisionFraction:    cfg.Valuation.RevisionFraction,
		RevisionProbability: cfg.Valuation.RevisionProbability,
		Solver:              bond.DefaultSolverConfig(),
	}, valuation.WithLogger(logger))

	inputs := make([]valuation.Input, len(records))
	for i, rec := range records {
		inputs[i] = valuation.Input{Terms: rec.Terms(), Quote: rec.Quote()}
	}
	bundles := engine.ValueBatch(ctx, inputs, valuation.BatchConfig{
		PerBondTimeout: 5 * time.Second,
	})

	rows := strategy.BuildRows(records, bundles, cfg.DoubleLowCoefficient)
	screened := strategy.BuildPipeline(cfg).Apply(rows)

	kinds, err := parseKinds(cmd)
	if err != nil {
		return report.Report{}, err
	}

	rep := report.Report{
		Date:     time.Now(),
		Market:   screened,
		Decimals: cfg.DecimalPlaces,
	}
	for _, k := range kinds {
		selected, err := k.Select(screened, cfg)
		if err != nil {
			return report.Report{}, err
		}
		rep.Selections = append(rep.Selections, report.Selection{Kind: k, Rows: selected})
	}
	return rep, nil
}

func parseKinds(cmd *cobra.Command) ([]strategy.Kind, error) {
	raw, _ := cmd.Flags().GetString("strategies")
	if raw == "" {
		return strategy.Kinds(), nil
	}
	var kinds []strategy.Kind
	for _, name := range strings.Split(raw, ",") {
		k, err := strategy.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
