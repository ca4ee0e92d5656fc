package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/CortexFX/consts"
	"github.com/dyike/CortexFX/internal/dataflows"
	"github.com/dyike/CortexFX/internal/indicators"
	"github.com/dyike/CortexFX/internal/utils"
	"github.com/dyike/CortexFX/models"
)

var Version = "1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cortexfx",
		Short: "CortexFX - AI-Powered Forex Signal Analysis",
		Long: `CortexFX analyzes currency pairs: it builds a price series, derives technical
indicators and produces a structured trading recommendation, using a language model when
one is configured and a deterministic heuristic otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return runInteractiveMode(cmd.Context(), a, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newSeriesCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file path")

	return rootCmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		timeframe   string
		asJSON      bool
		output      string
		requestFile string
		csvFile     string
		latestCSV   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Analyze a currency pair",
		Long: `Analyze a currency pair on a demo price series, or on the price data of a JSON
request file with the keys symbol, timeframe, priceData and indicators, or on a
series CSV written by "series --csv". --latest-csv picks the newest saved series of SYMBOL.
Example: cortexfx analyze EURUSD --timeframe 4H`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				result *models.AnalysisResult
				err    error
			)
			switch {
			case requestFile != "":
				result, err = analyzeRequestFile(ctx, a, requestFile)
			case csvFile != "":
				result, err = analyzeCSVFile(ctx, a, csvFile)
			case latestCSV && len(args) == 1:
				result, err = analyzeLatestCSV(ctx, a, args[0])
			case len(args) == 1:
				result, err = analyzeSymbol(ctx, a, args[0], timeframe)
			default:
				return fmt.Errorf("a symbol, --request or --csv file is required")
			}
			if err != nil {
				return err
			}
			return emitAnalysis(cmd.OutOrStdout(), result, asJSON, output)
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", consts.DefaultTimeframe, "Timeframe: "+strings.Join(consts.Timeframes, ", "))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a report to this path (.json or .md)")
	cmd.Flags().StringVar(&requestFile, "request", "", "Analyze the JSON request in this file")
	cmd.Flags().StringVar(&csvFile, "csv", "", "Analyze the series stored in this CSV file")
	cmd.Flags().BoolVar(&latestCSV, "latest-csv", false, "Analyze the newest series CSV saved for SYMBOL")
	return cmd
}

func newSeriesCmd(a *app) *cobra.Command {
	var (
		timeframe string
		asJSON    bool
		saveCSV   bool
	)
	cmd := &cobra.Command{
		Use:   "series SYMBOL",
		Short: "Generate a demo price series with indicators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.GenerateSeries(cmd.Context(), args[0], timeframe)
			if err != nil {
				return err
			}
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), RenderSeries(res))
			}
			if !saveCSV {
				return nil
			}
			path, err := utils.NewCSVManager(a.cfg.ResultsDir).WriteSeriesToCSV(res.Symbol, res.Timeframe, res.Series)
			if err != nil {
				return err
			}
			a.log.WithField("path", path).Info("series saved")
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Series saved to "+path))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", consts.DefaultTimeframe, "Timeframe: "+strings.Join(consts.Timeframes, ", "))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&saveCSV, "csv", false, "Also save the series as CSV under the results directory")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show supported symbols, timeframes and the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			info := svc.Info()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderInfo(info))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "CortexFX v%s\n", Version)
			fmt.Fprintln(cmd.OutOrStdout(), "AI-Powered Forex Signal Analysis")
		},
	}
}

func analyzeSymbol(ctx context.Context, a *app, symbol, timeframe string) (*models.AnalysisResult, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.AnalyzeSymbol(ctx, symbol, timeframe)
}

func analyzeRequestFile(ctx context.Context, a *app, path string) (*models.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	out, err := svc.AnalyzeJSON(ctx, string(data))
	if err != nil {
		return nil, err
	}
	return out.(*models.AnalysisResult), nil
}

func analyzeCSVFile(ctx context.Context, a *app, path string) (*models.AnalysisResult, error) {
	series, symbol, timeframe, err := utils.ReadSeriesCSV(path)
	if err != nil {
		return nil, err
	}
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Analyze(ctx, models.AnalysisRequest{
		Symbol:    symbol,
		Timeframe: timeframe,
		Series:    series,
	})
}

func analyzeLatestCSV(ctx context.Context, a *app, symbol string) (*models.AnalysisResult, error) {
	symbol, err := dataflows.ValidateAndNormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	path, err := utils.NewCSVManager(a.cfg.ResultsDir).FindLatestCSV(symbol, indicators.MinLength)
	if err != nil {
		return nil, err
	}
	a.log.WithField("path", path).Debug("using saved series")
	return analyzeCSVFile(ctx, a, path)
}

func emitAnalysis(w io.Writer, result *models.AnalysisResult, asJSON bool, output string) error {
	if asJSON {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, RenderAnalysis(result))
	}
	if output == "" {
		return nil
	}
	path, err := SaveReport(result, output)
	if err != nil {
		return err
	}
	if !asJSON {
		fmt.Fprintln(w, successStyle.Render("Report saved to "+path))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
