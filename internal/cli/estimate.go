package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
	"github.com/ogulcanaydogan/oaiusage/pkg/report"
	"github.com/ogulcanaydogan/oaiusage/pkg/tokenizer"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [prompt...]",
	Short: "Estimate the cost of a single request",
	Long: `Count the prompt tokens of a request with the model's tokenizer and price
it together with the expected number of output tokens. The prompt is taken
from the arguments, or from --file.`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringP("model", "m", "", "model name (e.g., gpt-5-mini, gpt-4.1-2025-04-14)")
	estimateCmd.Flags().Uint64("output-tokens", 0, "expected number of output tokens")
	estimateCmd.Flags().StringP("file", "f", "", "read the prompt from a file ('-' for stdin)")
	_ = estimateCmd.MarkFlagRequired("model")
}

// costEstimate is a priced single request.
type costEstimate struct {
	Model        string
	BaseModel    string
	PromptTokens uint64
	OutputTokens uint64
	CostUSD      float64
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modelName, _ := cmd.Flags().GetString("model")
	outputTokens, _ := cmd.Flags().GetUint64("output-tokens")
	file, _ := cmd.Flags().GetString("file")

	prompt, err := readPrompt(cmd.InOrStdin(), file, args)
	if err != nil {
		return err
	}

	table, err := initPricing(cfg)
	if err != nil {
		return err
	}

	est, err := estimate(table, modelName, prompt, outputTokens)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model:          %s (priced as %s)\n", est.Model, est.BaseModel)
	fmt.Fprintf(out, "Prompt tokens:  %s\n", report.FormatNumber(est.PromptTokens))
	fmt.Fprintf(out, "Output tokens:  %s\n", report.FormatNumber(est.OutputTokens))
	fmt.Fprintf(out, "Estimated cost: $%s\n", report.FormatCost(est.CostUSD))
	return nil
}

func readPrompt(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("give the prompt either as arguments or with --file, not both")
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}

// estimate tokenizes prompt for modelName and prices it like a usage record
// with no cached input.
func estimate(table *pricing.Table, modelName, prompt string, outputTokens uint64) (*costEstimate, error) {
	base, p, ok := table.Resolve(modelName)
	if !ok {
		return nil, fmt.Errorf("no pricing for model %q", modelName)
	}

	promptTokens, err := tokenizer.CountTokens(prompt, modelName)
	if err != nil {
		return nil, fmt.Errorf("count tokens: %w", err)
	}

	rec := model.UsageRecord{
		Model:            &modelName,
		InputTokens:      promptTokens,
		OutputTokens:     outputTokens,
		NumModelRequests: 1,
	}

	return &costEstimate{
		Model:        modelName,
		BaseModel:    base,
		PromptTokens: promptTokens,
		OutputTokens: outputTokens,
		CostUSD:      report.Cost(rec, p),
	}, nil
}
