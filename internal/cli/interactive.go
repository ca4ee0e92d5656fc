package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

func runInteractiveMode(ctx context.Context, a *app, w io.Writer) error {
	fmt.Fprintln(w, RenderBanner())

	for {
		symbol, err := PromptForSymbol()
		if err != nil {
			return err
		}
		timeframe, err := PromptForTimeframe()
		if err != nil {
			return err
		}

		fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Analyzing %s on %s...", symbol, timeframe)))
		result, err := analyzeSymbol(ctx, a, symbol, timeframe)
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
		} else {
			fmt.Fprintln(w, RenderAnalysis(result))

			path, err := PromptForReportPath(filepath.Join(a.cfg.ResultsDir, ReportFileName(result, ".md")))
			if err != nil {
				return err
			}
			if path != "" {
				saved, err := SaveReport(result, path)
				if err != nil {
					fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
				} else {
					fmt.Fprintln(w, successStyle.Render("Report saved to "+saved))
				}
			}
		}

		again, err := PromptForRestartOrExit()
		if err != nil || !again {
			fmt.Fprintln(w, "Thank you for using CortexFX!")
			return err
		}
	}
}
