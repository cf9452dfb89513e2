package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repradar-go/internal/actionable"
	"repradar-go/internal/config"
	"repradar-go/internal/dataset"
	"repradar-go/internal/logger"
	"repradar-go/internal/processor"
	"repradar-go/internal/provider"
	"repradar-go/internal/report"
	"repradar-go/internal/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	cfg        *config.Config
	log        *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "repradar",
		Short:        "Analyze recorded sales calls",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			// stdout carries the report, logs go to stderr
			a.log = logger.NewWithOptions(logger.Options{
				Environment: cfg.Environment,
				Level:       cfg.LogLevel,
				Output:      cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a repradar.yaml config file")
	root.AddCommand(a.analyzeCmd(), a.batchCmd(), a.playbookCmd())
	return root
}

func (a *app) processor() *processor.Processor {
	return processor.New(a.cfg, provider.NewHTTPClient(), a.log)
}

func (a *app) analyzeCmd() *cobra.Command {
	var (
		audioURL, file, apiKey, callID string
		format, xlsxPath               string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Transcribe and analyze one call",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := textFormat(format)
			if err != nil {
				return err
			}
			src := types.AudioSource{URL: audioURL}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read audio: %w", err)
				}
				src.FileName = filepath.Base(file)
				src.Data = data
			}
			if src.Empty() {
				return errors.New("no audio: pass --file or --url")
			}

			res, procErr := a.processor().Process(cmd.Context(), processor.Request{Audio: src, APIKey: apiKey, CallID: callID})
			if xlsxPath != "" {
				if err := writeFile(xlsxPath, func(f *os.File) error { return report.WriteCall(f, res) }); err != nil {
					return err
				}
			}
			if err := report.Encode(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			if procErr != nil {
				return errors.New(res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&audioURL, "url", "", "public URL of the call recording")
	cmd.Flags().StringVar(&file, "file", "", "local audio file (mp3, wav, m4a)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key, overrides MISTRAL_API_KEY")
	cmd.Flags().StringVar(&callID, "call-id", "", "identifier stored in the report")
	cmd.Flags().StringVar(&format, "format", report.FormatJSON, "output format: json or yaml")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report workbook to this path")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var (
		path, apiKey, format, xlsxPath string
		limit                          int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze the calls listed in an .xlsx dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := textFormat(format)
			if err != nil {
				return err
			}
			if path == "" {
				path = a.cfg.DatasetPath
			}
			if path == "" {
				return errors.New("no dataset given (--dataset or DATASET_PATH)")
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.BatchLimit
			}

			records, err := dataset.Load(path)
			if err != nil {
				return err
			}
			a.log.WithField("dataset_path", path).WithField("records", len(records)).Info("dataset loaded")

			res := a.processor().ProcessBatch(cmd.Context(), records, limit, apiKey)
			if xlsxPath != "" {
				if err := writeFile(xlsxPath, func(f *os.File) error { return report.WriteBatch(f, res) }); err != nil {
					return err
				}
			}
			return report.Encode(cmd.OutOrStdout(), format, res)
		},
	}
	cmd.Flags().StringVar(&path, "dataset", "", "path to the dataset workbook")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of calls to analyze")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key, overrides MISTRAL_API_KEY")
	cmd.Flags().StringVar(&format, "format", report.FormatJSON, "output format: json or yaml")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the batch workbook to this path")
	return cmd
}

func (a *app) playbookCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "playbook",
		Short: "Print suggested responses to common objections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := textFormat(format)
			if err != nil {
				return err
			}
			return report.Encode(cmd.OutOrStdout(), format, actionable.Playbook())
		},
	}
	cmd.Flags().StringVar(&format, "format", report.FormatJSON, "output format: json or yaml")
	return cmd
}

func textFormat(s string) (string, error) {
	f, err := report.NormalizeFormat(s)
	if err != nil {
		return "", err
	}
	if f == report.FormatXLSX {
		return "", errors.New("use --xlsx <path> for workbooks")
	}
	return f, nil
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
