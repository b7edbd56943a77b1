package bincpio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/meigma/bincpio/internal/compression"
)

// MediaTypeCPIO is the media type of an uncompressed archive. Compressed
// archives append the algorithm as a structured suffix, e.g. "+zstd".
const MediaTypeCPIO = "application/x-cpio"

// Digest returns the SHA-256 digest of the file at path, typically an archive.
func Digest(path string) (digest.Digest, error) {
	return fileDigest(path)
}

// Describe returns an OCI content descriptor for the archive at path, so it
// can be referenced from image manifests or stored by digest. The media type
// reflects the detected compression.
func Describe(path string) (ocispec.Descriptor, error) {
	f, err := os.Open(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	defer f.Close()

	prefix := make([]byte, 4)
	n, _ := f.Read(prefix) //nolint:errcheck // short or empty files are uncompressed
	mediaType := MediaTypeCPIO
	if algo := compression.Detect(prefix[:n]); algo != compression.None {
		mediaType += "+" + algo.String()
	}

	info, err := f.Stat()
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	d, err := fileDigest(path)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("describe %s: %w", path, err)
	}
	return ocispec.Descriptor{
		MediaType: mediaType,
		Digest:    d,
		Size:      info.Size(),
		Annotations: map[string]string{
			ocispec.AnnotationTitle: filepath.Base(path),
		},
	}, nil
}
