package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/document"
	"github.com/spigell/cv-evaluator/internal/extraction"
	"github.com/spigell/cv-evaluator/internal/heuristic"
	"github.com/spigell/cv-evaluator/internal/logger"
	"github.com/spigell/cv-evaluator/internal/profile"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the extracted text metadata and candidate profile of a résumé",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("ai", false, "run the structured extraction passes instead of the heuristics")
}

type extractOutput struct {
	Document *document.ExtractedText  `json:"document"`
	Profile  profile.CandidateProfile `json:"profile"`
}

func extract(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	doc, err := document.Load(path)
	if err != nil {
		logger.Fatal("loading document", zap.Error(err))
	}

	documents := document.NewExtractor(logger, int64(config.Document.MaxSizeMB)*1024*1024)
	extracted, err := documents.Extract(ctx, doc)
	if err != nil {
		logger.Fatal("extracting text", zap.String("file", path), zap.Error(err))
	}

	out := extractOutput{Document: extracted}

	if cmd.Flag("ai").Value.String() == "true" {
		c, err := buildComponents(ctx, config, logger)
		if err != nil {
			logger.Fatal("preparing the extractor", zap.Error(err))
		}
		extractor := c.extractor
		if extractor == nil {
			extractor = extraction.New(nil, logger)
		}
		out.Profile = extractor.ExtractComplete(ctx, extracted.Text)
	} else {
		out.Profile = heuristic.ExtractBasic(extracted.Text)
	}

	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}
}
