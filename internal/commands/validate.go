package commands

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmtconv/internal/convert"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var input, format string
	var dump bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a statement file parses and summarize its contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := convert.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("--format: %w", err)
			}
			_, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), log, convert.DefaultRegistry(), data, f, dump)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdio, "input file, - for stdin")
	cmd.Flags().StringVar(&format, "format", string(convert.Auto), "input format: auto, mt940, camt053, xml, csv")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the decoded document as YAML")

	return cmd
}

func runValidate(w io.Writer, log logrus.FieldLogger, reg *convert.Registry, data []byte, f convert.Format, dump bool) error {
	if f == convert.Auto {
		f = convert.Detect(data)
		log.WithField("format", f).Debug("detected input format")
	}
	dec := reg.Get(f)
	if dec == nil {
		return fmt.Errorf("no decoder for format %q", f)
	}

	sum, err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid %s document: %w", f, err)
	}

	if dump {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum.Model); err != nil {
			return fmt.Errorf("encoding dump: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "valid %s document: %d statements, %d entries\n", sum.Format, sum.Statements, sum.Entries)
	for _, d := range sum.Details {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}
