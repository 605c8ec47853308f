package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtconv/internal/convert"
)

// stdio names standard input or output in file flags.
const stdio = "-"

func newConvertCommand(opts *globalOptions) *cobra.Command {
	var input, output, inFormat, outFormat string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a statement file between formats",
		Example: `  stmtconv convert -i statement.sta --out-format camt053 -o statement.xml
  stmtconv convert --in-format camt053 --out-format mt940 < statement.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := convert.ParseFormat(inFormat)
			if err != nil {
				return fmt.Errorf("--in-format: %w", err)
			}
			to, err := convert.ParseFormat(outFormat)
			if err != nil {
				return fmt.Errorf("--out-format: %w", err)
			}
			if to == convert.Auto {
				return errors.New("--out-format must name a target format")
			}

			cfg, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd, convert.New(cfg, log), input, from, output, to)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdio, "input file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "output file, - for stdout")
	cmd.Flags().StringVar(&inFormat, "in-format", string(convert.Auto), "source format: auto, mt940, camt053, xml, csv")
	cmd.Flags().StringVar(&outFormat, "out-format", "", "target format: mt940, camt053, xml, csv (required)")
	_ = cmd.MarkFlagRequired("out-format")

	return cmd
}

// runConvert buffers the whole result so a failed conversion never leaves a
// partial output file behind.
func runConvert(cmd *cobra.Command, conv *convert.Converter, input string, from convert.Format, output string, to convert.Format) error {
	in, closeIn, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer closeIn()

	var buf bytes.Buffer
	if err := conv.ConvertStream(in, from, &buf, to); err != nil {
		return err
	}

	if output == stdio {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func openInput(cmd *cobra.Command, input string) (io.Reader, func(), error) {
	if input == stdio {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	in, closeIn, err := openInput(cmd, input)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
