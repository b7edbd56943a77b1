package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <archive>...",
		Short: "Check that files start with an old binary cpio header",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.archiver(cmd)
			if err != nil {
				return err
			}
			invalid := 0
			for _, p := range args {
				status := "ok"
				if !a.IsHeaderValid(p) {
					status = "invalid"
					invalid++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, status)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d files are not valid archives", invalid, len(args))
			}
			return nil
		},
	}
}
