package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/bincpio"
)

func newVerifyCmd(g *globalFlags) *cobra.Command {
	var (
		pattern string
		nested  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "verify <source-dir> <extracted-dir>",
		Short: "Compare extracted files against their sources",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.archiver(cmd)
			if err != nil {
				return err
			}
			err = a.VerifyFiles(cmd.Context(), args[0], args[1],
				bincpio.VerifyWithPattern(pattern),
				bincpio.VerifyWithNested(nested),
				bincpio.VerifyWithWorkers(workers),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all files verified")
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", bincpio.DefaultVerifyPattern, "glob matched against file base names")
	cmd.Flags().BoolVar(&nested, "nested", false, "search subdirectories too")
	cmd.Flags().IntVar(&workers, "workers", 0, "files digested concurrently (0 = GOMAXPROCS)")
	return cmd
}
