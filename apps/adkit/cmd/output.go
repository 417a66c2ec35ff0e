// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoffsec/adkit/cli/reporter"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "table", "set output format: "+reporter.AllFormats())
	cmd.Flags().String("output-file", "", "write the report to a file instead of stdout")
}

// newReporter builds the reporter selected on the command line. The
// returned closer is a no-op when the report goes to stdout.
func newReporter(cmd *cobra.Command) (*reporter.Reporter, func() error, error) {
	format, _ := cmd.Flags().GetString("output")
	file, _ := cmd.Flags().GetString("output-file")

	out := io.Writer(os.Stdout)
	closer := func() error { return nil }
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not create %s", file)
		}
		out = f
		closer = f.Close
	}

	r, err := reporter.New(format, out)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return r, closer, nil
}

func writeReport(cmd *cobra.Command, report *reporter.Report) {
	r, closer, err := newReporter(cmd)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up the report output")
	}
	if err := r.Write(report); err != nil {
		log.Fatal().Err(err).Msg("could not write the report")
	}
	if err := closer(); err != nil {
		log.Fatal().Err(err).Msg("could not write the report")
	}
}
