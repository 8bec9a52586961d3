package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
)

func loadFile(service *Service, path string) (*models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return service.Load(filepath.Base(path), data)
}

// writeOutput writes to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "cannot write %s", path)
}

func newSummarizeCommand(service *Service) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Print column diagnostics and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(service, args[0])
			if err != nil {
				return err
			}
			summary := service.Summarize(filepath.Base(args[0]), ds)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(summary)
			}
			fmt.Fprintln(out, GenerateSummaryText(summary))
			fmt.Fprintln(out, GenerateDiagnosticsTable(ds.Names(), summary.ColumnDiagnostics))
			fmt.Fprintln(out, GenerateRecommendationsText(summary.Recommendations))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func newProcessCommand(service *Service) *cobra.Command {
	var optionsPath, outPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Clean the dataset and print its readiness report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readOptionsFile(optionsPath)
			if err != nil {
				return err
			}
			ds, err := loadFile(service, args[0])
			if err != nil {
				return err
			}
			cleaned, result, err := service.Process(ds, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(result)
			}
			var buf bytes.Buffer
			if err := dataset.WriteCSV(&buf, cleaned); err != nil {
				return err
			}
			if err := writeOutput(out, outPath, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), GenerateReadinessTable(result.ReadinessReport))
			return nil
		},
	}
	cmd.Flags().StringVar(&optionsPath, "options", "", "JSON options file")
	cmd.Flags().StringVar(&outPath, "out", "", "cleaned CSV destination (stdout by default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the process result as JSON instead of CSV")
	return cmd
}

func newExportCodeCommand(service *Service) *cobra.Command {
	var optionsPath, outPath string
	cmd := &cobra.Command{
		Use:   "export-code FILE",
		Short: "Generate a scikit-learn script reproducing the cleaning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readOptionsFile(optionsPath)
			if err != nil {
				return err
			}
			ds, err := loadFile(service, args[0])
			if err != nil {
				return err
			}
			script, err := service.ExportCode(filepath.Base(args[0]), ds, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, []byte(script))
		},
	}
	cmd.Flags().StringVar(&optionsPath, "options", "", "JSON options file")
	cmd.Flags().StringVar(&outPath, "out", "", "script destination (stdout by default)")
	return cmd
}

func newVisualizeCommand(service *Service) *cobra.Command {
	var column, transform, format, outPath string
	cmd := &cobra.Command{
		Use:   "visualize FILE",
		Short: "Draw a column histogram before and after scaling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(service, args[0])
			if err != nil {
				return err
			}
			comparison, err := service.Visualize(ds, column, transform)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "html":
				var buf bytes.Buffer
				if err := comparison.HTML(&buf); err != nil {
					return err
				}
				data = buf.Bytes()
			case "png":
				if data, err = comparison.PNG(); err != nil {
					return err
				}
			default:
				return models.InvalidInputf("unknown format %q", format)
			}
			if outPath == "" {
				outPath = fmt.Sprintf("%s_%s.%s", asciiFilename(column), transform, format)
			}
			return writeOutput(cmd.OutOrStdout(), outPath, data)
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "numeric column to plot")
	cmd.Flags().StringVar(&transform, "transform", string(models.ScaleStandard), "standard or minmax")
	cmd.Flags().StringVar(&format, "format", "png", "png or html")
	cmd.Flags().StringVar(&outPath, "out", "", "image destination")
	cmd.MarkFlagRequired("column")
	return cmd
}
