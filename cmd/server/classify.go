package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/classifier"
)

// newClassifyCmd needs no configuration: the catalog is built in.
func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <question>",
		Short: "Print the intent, basis and score for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printClassification(cmd, newClassifier(zap.NewNop()), strings.Join(args, " "), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func printClassification(cmd *cobra.Command, cls *classifier.Classifier, question string, asJSON bool) error {
	result := cls.Classify(question)
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	_, err := fmt.Fprintf(out, "intent=%s basis=%s score=%.2f\n", result.Intent, result.Basis, result.Score)
	return err
}
