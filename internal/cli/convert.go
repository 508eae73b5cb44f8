package cli

import (
	"errors"
	"fmt"

	"github.com/nconklindev/manifest/internal/converter"
	"github.com/nconklindev/manifest/internal/manifest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type convertOptions struct {
	drop   []int
	stdout bool
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a spreadsheet to a .PBS manifest without the UI",
		Long: `Reads the first sheet of FILE (.xlsx or .csv), normalizes every data row and
writes T1.M<reference>.PBS to the output directory.

Example:
  manifest convert orders.xlsx --out ./exports --drop 2,5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.drop, "drop", nil, "line numbers (1-based) to leave out of the export")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the manifest instead of writing a file")

	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, inputFile string, opts *convertOptions) error {
	log := a.logger.With(zap.String("file", inputFile))

	rows, err := converter.LoadRows(inputFile)
	if err != nil {
		log.Error("load spreadsheet", zap.Error(err))
		return err
	}

	store := manifest.NewStore()
	store.ReplaceAll(manifest.Normalize(rows))
	log.Info("file processed", zap.Int("rows", len(rows)))

	if len(opts.drop) > 0 {
		positions := make([]int, len(opts.drop))
		for i, line := range opts.drop {
			positions[i] = line - 1
		}
		n, err := store.DeleteMany(positions)
		if err != nil {
			var idxErr *manifest.IndexError
			if errors.As(err, &idxErr) {
				return fmt.Errorf("line %d does not exist, the batch has %d line(s): %w", idxErr.Index+1, idxErr.Len, err)
			}
			return err
		}
		log.Info("lines dropped", zap.Int("count", n))
	}

	if opts.stdout {
		out, err := store.Serialize()
		if err != nil {
			return fmt.Errorf("%s: %w", inputFile, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	result, err := converter.WriteManifest(store, inputFile, a.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("%s: %w", inputFile, err)
	}
	log.Info("manifest exported",
		zap.String("output", result.OutputFile),
		zap.Int("records", result.RecordsWritten),
		zap.String("tracking_ref", result.TrackingRef))

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", result.RecordsWritten, result.OutputFile)
	return nil
}
