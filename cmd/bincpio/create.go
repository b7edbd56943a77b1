package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/bincpio"
)

type createFlags struct {
	dir         string
	deviceData  string
	baseNames   bool
	compression string
	bigEndian   bool
	descriptor  bool
}

func newCreateCmd(g *globalFlags) *cobra.Command {
	flags := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create <archive> [file...]",
		Short: "Create an archive from files, a directory or device data",
		Long: "Create writes the given files, every regular file below --dir, or the " +
			"chunks of a --device-data dump to a new archive.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, g, flags, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&flags.dir, "dir", "C", "", "archive every regular file below this directory")
	cmd.Flags().StringVar(&flags.deviceData, "device-data", "", "re-frame a device data dump into an archive")
	cmd.Flags().BoolVar(&flags.baseNames, "base-names", false, "store files under their base name only")
	cmd.Flags().StringVarP(&flags.compression, "compression", "z", "none", "compress the archive: none, gzip, zstd or lz4")
	cmd.Flags().BoolVar(&flags.bigEndian, "big-endian", false, "write header fields big-endian")
	cmd.Flags().BoolVar(&flags.descriptor, "descriptor", false, "print an OCI content descriptor for the archive as JSON")
	cmd.MarkFlagsMutuallyExclusive("dir", "device-data")
	return cmd
}

func runCreate(cmd *cobra.Command, g *globalFlags, flags *createFlags, archivePath string, files []string) error {
	ctx := cmd.Context()
	c, err := bincpio.ParseCompression(flags.compression)
	if err != nil {
		return err
	}

	createOpts := []bincpio.CreateOption{bincpio.CreateWithBaseNames(flags.baseNames)}
	if flags.bigEndian {
		createOpts = append(createOpts, bincpio.CreateWithByteOrder(bigEndian))
	}
	a, err := g.archiver(cmd, bincpio.WithCompression(c), bincpio.WithCreateOptions(createOpts...))
	if err != nil {
		return err
	}

	switch {
	case flags.deviceData != "":
		data, err := os.ReadFile(flags.deviceData)
		if err != nil {
			return err
		}
		err = a.CreateArchiveFromDeviceData(ctx, archivePath, data)
		if err != nil {
			return err
		}
	case flags.dir != "":
		if err := a.CreateArchiveFromDir(ctx, flags.dir, archivePath); err != nil {
			return err
		}
	case len(files) > 0:
		if err := a.CreateArchive(ctx, files, archivePath); err != nil {
			return err
		}
	default:
		return errors.New("nothing to archive: pass files, --dir or --device-data")
	}

	desc, err := bincpio.Describe(archivePath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flags.descriptor {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(desc)
	}
	fmt.Fprintf(out, "%s\t%s\t%s\n", archivePath, humanize.IBytes(uint64(desc.Size)), desc.Digest) //nolint:gosec // sizes are never negative
	return nil
}
