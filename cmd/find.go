package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/finder"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Recommend assessments for a job description given as text or URL",
	Run: func(cmd *cobra.Command, _ []string) {
		find(cmd)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	registerFindFlags(findCmd)
}

func registerFindFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("text", "t", "", "job description text")
	cmd.Flags().StringP("url", "u", "", "URL of a job description page")
	cmd.Flags().IntP("top-k", "k", 0, "number of recommendations, 5-15 (default from ui.top-k)")
	cmd.Flags().Bool("rerank", true, "enable re-ranking")
	cmd.Flags().Bool("fallback", true, "show the fallback message when nothing matches")
	cmd.Flags().Bool("explanations", false, "show AI explanations")

	cmd.MarkFlagsMutuallyExclusive("text", "url")
}

func find(cmd *cobra.Command) {
	config, logger := setup()

	in, err := findInput(cmd, uiOptions(config.UI))
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	flow, err := newFlow(cmd.Context(), config, logger)
	if err != nil {
		logger.Fatal("preparing the finder", zap.Error(err))
	}

	page := flow.Run(cmd.Context(), in)
	if err := finder.WriteText(os.Stdout, page); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}
}

// findInput maps the command flags onto a triggered interaction. Toggles
// left unset keep the configured defaults.
func findInput(cmd *cobra.Command, opts finder.Options) (finder.Input, error) {
	flags := cmd.Flags()

	text, _ := flags.GetString("text")
	rawURL, _ := flags.GetString("url")
	if !flags.Changed("text") && !flags.Changed("url") {
		return finder.Input{}, errors.New("either --text or --url is required")
	}

	in := finder.Input{Mode: acquire.ModeText, Text: text, Options: opts, Triggered: true}
	if flags.Changed("url") {
		in = finder.Input{Mode: acquire.ModeURL, URL: rawURL, Options: opts, Triggered: true}
	}

	if flags.Changed("top-k") {
		in.Options.TopK, _ = flags.GetInt("top-k")
	}
	if flags.Changed("rerank") {
		in.Options.Rerank, _ = flags.GetBool("rerank")
	}
	if flags.Changed("fallback") {
		in.Options.Fallback, _ = flags.GetBool("fallback")
	}
	if flags.Changed("explanations") {
		in.Options.Explanations, _ = flags.GetBool("explanations")
	}

	return in, nil
}
