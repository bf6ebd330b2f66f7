package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/stream-csv/pkg/csv"
)

// sniffSampleSize bounds how much of the input the sniffer inspects.
const sniffSampleSize = 64 * 1024

var sniffCmd = &cobra.Command{
	Use:   "sniff [file]",
	Short: "Detect the dialect of a CSV stream",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSniff,
}

func runSniff(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeIn()

	sample, err := io.ReadAll(io.LimitReader(in, sniffSampleSize))
	if err != nil {
		return err
	}

	s := csv.NewSniffer(string(sample))
	comma := s.DetectComma()
	name := string(comma)
	if comma == '\t' {
		name = `\t`
	}

	fmt.Fprintf(cmd.OutOrStdout(), "separator: %s\nterminator: %s\n",
		name, s.DetectTerminator())
	return nil
}
