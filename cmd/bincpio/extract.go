package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/bincpio"
)

var bigEndian binary.ByteOrder = binary.BigEndian

type extractFlags struct {
	preserve      bool
	filters       []string
	bufferSize    int
	bigEndian     bool
	legacyTrailer bool
	shortNames    bool
	preserveTimes bool
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	flags := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract <archive> <dest>",
		Short: "Extract an archive into a directory",
		Long: "Extract writes every record of the archive below dest. Records are " +
			"flattened to their base name unless --preserve is set. Compressed " +
			"archives are detected automatically.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, flags, args[0], args[1])
		},
	}
	cmd.Flags().BoolVarP(&flags.preserve, "preserve", "p", false, "keep the directory structure of record names")
	cmd.Flags().StringSliceVarP(&flags.filters, "filter", "f", nil, "extract only records matching these glob patterns")
	cmd.Flags().IntVar(&flags.bufferSize, "buffer-size", 0, "copy buffer size in bytes")
	cmd.Flags().BoolVar(&flags.bigEndian, "big-endian", false, "read header fields big-endian")
	cmd.Flags().BoolVar(&flags.legacyTrailer, "legacy-trailer", false, "end at any record whose name contains TRAILER!!!")
	cmd.Flags().BoolVar(&flags.shortNames, "short-names", false, "read names laid out without their NUL terminator")
	cmd.Flags().BoolVar(&flags.preserveTimes, "preserve-times", false, "apply record modification times")
	return cmd
}

func (f *extractFlags) options() []bincpio.ExtractOption {
	layout := bincpio.LayoutFlatten
	if f.preserve {
		layout = bincpio.LayoutPreserve
	}
	opts := []bincpio.ExtractOption{
		bincpio.ExtractWithLayout(layout),
		bincpio.ExtractWithBufferSize(f.bufferSize),
		bincpio.ExtractWithLegacyTrailerMatch(f.legacyTrailer),
		bincpio.ExtractWithShortNames(f.shortNames),
		bincpio.ExtractWithPreserveTimes(f.preserveTimes),
	}
	if len(f.filters) > 0 {
		opts = append(opts, bincpio.ExtractWithFilter(f.filters...))
	}
	if f.bigEndian {
		opts = append(opts, bincpio.ExtractWithByteOrder(bigEndian))
	}
	return opts
}

func runExtract(cmd *cobra.Command, g *globalFlags, flags *extractFlags, archivePath, dest string) error {
	a, err := g.archiver(cmd, bincpio.WithExtractOptions(flags.options()...))
	if err != nil {
		return err
	}

	session, err := a.ExtractArchive(cmd.Context(), archivePath, dest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var total uint64
	for _, p := range session.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		total += uint64(info.Size()) //nolint:gosec // sizes are never negative
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "%d files, %s, %d skipped\n", len(session.Paths), humanize.IBytes(total), len(session.Skipped))
	return nil
}
