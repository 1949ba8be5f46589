package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/document"
	"github.com/spigell/cv-evaluator/internal/history"
	"github.com/spigell/cv-evaluator/internal/logger"
	"github.com/spigell/cv-evaluator/internal/pipeline"
	"github.com/spigell/cv-evaluator/internal/report"
)

const (
	PromptLatest  = "Show latest result"
	PromptHistory = "Show history"
	PromptStats   = "Show stats"
	PromptExport  = "Export to Excel"
	PromptExit    = "Exit"

	defaultReportPath = "cv-evaluator-report.xlsx"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptLatest, PromptHistory, PromptStats, PromptExport, PromptExit},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate FILE...",
	Short: "Evaluate résumé files against a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("requirements", "r", "", "job description to evaluate against")
	evaluateCmd.Flags().String("requirements-file", "", "file holding the job description")
	evaluateCmd.Flags().BoolP("auto-approve", "y", false, "do not show the interactive menu after evaluation")
	evaluateCmd.Flags().String("export", "", "export the history to this .xlsx file")
	evaluateCmd.Flags().Bool("strict-quality", false, "abort when the extracted text looks unusable")

	viper.BindPFlag("pipeline.strict-quality", evaluateCmd.Flags().Lookup("strict-quality"))
}

// evaluate is the main command for the cli.
func evaluate(cmd *cobra.Command, files []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-evaluator", zap.String("version", version))

	requirements, err := readRequirements(cmd)
	if err != nil {
		logger.Fatal("reading job requirements", zap.Error(err))
	}

	c, err := buildComponents(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the evaluator", zap.Error(err))
	}

	logger.Info("system status", statusFields(config, c.pipeline.Status())...)

	out := cmd.OutOrStdout()
	failed := 0
	for _, file := range files {
		if err := evaluateFile(ctx, c.pipeline, file, requirements, out); err != nil {
			failed++
			logger.Error("evaluating file", zap.String("file", file), zap.Error(err))
		}
	}

	logger.Info("evaluation finished",
		zap.Int("files", len(files)),
		zap.Int("failed", failed),
		zap.Int("history_len", c.history.Len()),
	)

	if err := c.metrics.WriteTextfile(config.Metrics.Textfile); err != nil {
		logger.Warn("writing metrics", zap.Error(err))
	}

	if path := cmd.Flag("export").Value.String(); path != "" {
		if err := exportHistory(c.history, path, logger); err != nil {
			logger.Fatal("exporting history", zap.Error(err))
		}
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, c.history, out, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func readRequirements(cmd *cobra.Command) (string, error) {
	requirements := cmd.Flag("requirements").Value.String()
	if file := cmd.Flag("requirements-file").Value.String(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read requirements file: %w", err)
		}
		requirements = string(data)
	}

	if strings.TrimSpace(requirements) == "" {
		return "", errors.New("job requirements are required (use -r or --requirements-file)")
	}
	return requirements, nil
}

func evaluateFile(ctx context.Context, p *pipeline.Pipeline, path, requirements string, out io.Writer) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}

	res, err := p.Process(ctx, pipeline.Submission{Document: doc, Requirements: requirements})
	if err != nil {
		return err
	}

	return printJSON(out, res)
}

func statusFields(config *Config, status pipeline.Status) []zap.Field {
	return []zap.Field{
		zap.String("provider", config.AI.Provider),
		zap.String("model", config.AI.Gemini.Model),
		zap.Bool("structured_extraction", status.StructuredExtraction),
		zap.Bool("strict_quality", status.StrictQuality),
		zap.Int("history_capacity", status.HistoryCapacity),
	}
}

func handleAction(action string, h *history.History, out io.Writer, logger *zap.Logger) error {
	switch action {
	case PromptLatest:
		latest, ok := h.Latest()
		if !ok {
			logger.Info("no successful evaluation recorded yet")
			return nil
		}
		return printJSON(out, latest)
	case PromptHistory:
		return printJSON(out, h.Entries())
	case PromptStats:
		stats, err := h.Stats()
		if errors.Is(err, history.ErrNoEvaluations) {
			logger.Info("no successful evaluation recorded yet")
			return nil
		}
		if err != nil {
			return err
		}
		return printJSON(out, stats)
	case PromptExport:
		pathPrompt := promptui.Prompt{Label: "Report file", Default: defaultReportPath}
		path, err := pathPrompt.Run()
		if err != nil {
			return err
		}
		return exportHistory(h, path, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportHistory(h *history.History, path string, logger *zap.Logger) error {
	var stats *history.Stats
	if s, err := h.Stats(); err == nil {
		stats = &s
	}
	latest, _ := h.Latest()

	written, err := report.ExportXLSX(path, h.Entries(), stats, latest)
	if err != nil {
		return err
	}

	logger.Info("history exported", zap.String("filename", written))
	return nil
}

func printJSON(out io.Writer, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(pretty))
	return err
}
