package cli

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/CortexFX/consts"
)

// PromptForSymbol prompts the user to pick a currency pair
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Select{
		Message: "Select the currency pair:",
		Options: consts.Symbols,
		Default: consts.Symbols[0],
		Help:    "Only the listed pairs are supported",
	}
	if err := survey.AskOne(prompt, &symbol); err != nil {
		return "", err
	}
	return symbol, nil
}

// PromptForTimeframe prompts the user to pick a timeframe
func PromptForTimeframe() (string, error) {
	var timeframe string
	prompt := &survey.Select{
		Message: "Select the timeframe:",
		Options: consts.Timeframes,
		Default: consts.DefaultTimeframe,
	}
	if err := survey.AskOne(prompt, &timeframe); err != nil {
		return "", err
	}
	return timeframe, nil
}

// PromptForReportPath asks whether to save the report and where. An empty path
// means no report.
func PromptForReportPath(defaultPath string) (string, error) {
	var save bool
	if err := survey.AskOne(&survey.Confirm{Message: "Save a report of this analysis?", Default: false}, &save); err != nil {
		return "", err
	}
	if !save {
		return "", nil
	}
	var path string
	prompt := &survey.Input{
		Message: "Report path (.md or .json):",
		Default: defaultPath,
	}
	if err := survey.AskOne(prompt, &path, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return path, nil
}

// PromptForRestartOrExit prompts user when analysis completes
func PromptForRestartOrExit() (bool, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Analysis completed! What would you like to do next?",
		Options: []string{
			"Start a new analysis",
			"Exit CortexFX",
		},
		Default: "Exit CortexFX",
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return false, err
	}
	return choice == "Start a new analysis", nil
}
