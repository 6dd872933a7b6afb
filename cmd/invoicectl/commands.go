package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/invoice-review-assistant/internal/bootstrap"
	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/core/usecase"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/llm/ollama"
)

func newEvaluateCmd(opts *options) *cobra.Command {
	var documentPath, corpusPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Decide whether a document can be auto-approved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readDocument(documentPath)
			if err != nil {
				return err
			}
			var corpus []domain.Document
			if corpusPath != "" {
				if corpus, err = readCorpus(corpusPath); err != nil {
					return err
				}
			}

			result, err := usecase.NewWorkflowUseCase(nil).Evaluate(cmd.Context(), doc, corpus)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, result)
		},
	}
	cmd.Flags().StringVar(&documentPath, "document", "", "path to a JSON document (required)")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "path to a JSON array of historical documents")
	_ = cmd.MarkFlagRequired("document")
	return cmd
}

func newAnalyticsCmd(opts *options) *cobra.Command {
	var corpusPath, query string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Aggregate spend by vendor, category and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			corpus, err := readCorpus(corpusPath)
			if err != nil {
				return err
			}

			var responder ports.QueryResponder
			if query != "" {
				responder = ollama.NewQueryResponder(bootstrap.NewOllamaClient(opts.cfg, nil))
			}
			result, err := usecase.NewAnalyticsUseCase(nil, responder).Compute(cmd.Context(), corpus, query)
			if err != nil {
				return fmt.Errorf("analytics: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, result)
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "path to a JSON array of documents (required)")
	cmd.Flags().StringVar(&query, "query", "", "question answered by the LLM over the aggregates")
	_ = cmd.MarkFlagRequired("corpus")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var corpusPath, format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write documents as CSV, QuickBooks IIF or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			corpus, err := readCorpus(corpusPath)
			if err != nil {
				return err
			}

			file, err := bootstrap.NewExportUseCase().Export(cmd.Context(), corpus, domain.ExportFormat(format))
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			target := outPath
			if target == "" {
				target = file.Filename
			}
			if err := os.WriteFile(target, file.Content, 0o644); err != nil {
				return fmt.Errorf("write export %s: %w", target, err)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, map[string]any{
				"path":         filepath.Clean(target),
				"content_type": file.ContentType,
				"bytes":        len(file.Content),
				"documents":    len(corpus),
			})
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "path to a JSON array of documents (required)")
	cmd.Flags().StringVar(&format, "format", string(domain.ExportCSV), "csv, quickbooks or excel")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (defaults to invoice_export_YYYYMMDD.<ext>)")
	_ = cmd.MarkFlagRequired("corpus")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <document-a> <document-b>",
		Short: "Compare two documents and flag duplicates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readDocument(args[0])
			if err != nil {
				return err
			}
			b, err := readDocument(args[1])
			if err != nil {
				return err
			}

			cmp, err := usecase.NewCompareUseCase().Compare(cmd.Context(), a, b)
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, cmp)
		},
	}
}
