package cmd

import (
	"errors"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/finder"
)

const (
	PromptText        = "Text"
	PromptURL         = "URL"
	PromptSearchAgain = "Search again"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var modePrompt = promptui.Select{
	Label: "Select input type",
	Items: []string{PromptText, PromptURL},
}

var nextPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSearchAgain, PromptExit},
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Interactively ask for job descriptions and show recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		ask(cmd)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func ask(cmd *cobra.Command) {
	config, logger := setup()

	flow, err := newFlow(cmd.Context(), config, logger)
	if err != nil {
		logger.Fatal("preparing the finder", zap.Error(err))
	}

	opts := uiOptions(config.UI)
	for {
		in, err := askInput(opts)
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		page := flow.Run(cmd.Context(), in)
		if err := finder.WriteText(os.Stdout, page); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}

		_, action, err := nextPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if err := handleNext(action); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "got exit from prompt"))
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleNext(action string) error {
	switch action {
	case PromptSearchAgain:
		return nil
	case PromptExit:
		return errExit
	default:
		return errors.New("invalid action: " + action)
	}
}

func askInput(opts finder.Options) (finder.Input, error) {
	_, mode, err := modePrompt.Run()
	if err != nil {
		return finder.Input{}, err
	}

	in := finder.Input{Options: opts, Triggered: true}
	if mode == PromptURL {
		p := promptui.Prompt{
			Label: "Enter a URL pointing to a job description",
			Validate: func(s string) error {
				if s == "" {
					return nil
				}
				return acquire.ValidateURL(s)
			},
		}
		in.Mode = acquire.ModeURL
		in.URL, err = p.Run()
		return in, err
	}

	p := promptui.Prompt{Label: "Paste your job description or requirement here"}
	in.Mode = acquire.ModeText
	in.Text, err = p.Run()
	return in, err
}
