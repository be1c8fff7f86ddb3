// Package snapshot implements SnapshotSource against an orderbook file
// on disk (spec.md §6.4): an optional caller-provided cache of the
// encoded-orderbook bytestream, byte-identical to the wire layout,
// optionally gzip-compressed.
package snapshot

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pricegraph/pricegraph/internal/circuitbreaker"
	"github.com/pricegraph/pricegraph/internal/logger"
)

var gzipMagic = []byte{0x1f, 0x8b}

// FileSource reads the orderbook file at Path on every Load call. The
// batch id is read from a sibling "<path>.batch" file containing a plain
// decimal integer; if absent, batch 0 is reported (callers typically
// treat this as "use whatever the caller passes explicitly").
type FileSource struct {
	Path string

	cb  *circuitbreaker.CircuitBreaker[[]byte]
	log logger.LoggerInterface
}

// NewFileSource builds a FileSource guarded by a circuit breaker, so a
// snapshot producer that starts writing truncated or unreadable files
// doesn't get hammered with read attempts every poll interval.
func NewFileSource(path string, log logger.LoggerInterface) *FileSource {
	return &FileSource{
		Path: path,
		cb:   circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("snapshot-file")),
		log:  log,
	}
}

// Load reads and, if gzip-compressed, decompresses the orderbook file.
func (f *FileSource) Load(ctx context.Context) ([]byte, uint32, error) {
	raw, err := f.cb.Execute(func() ([]byte, error) {
		return os.ReadFile(f.Path)
	})
	if err != nil {
		return nil, 0, err
	}

	data, err := maybeDecompress(raw)
	if err != nil {
		return nil, 0, err
	}

	batch := f.readBatch(ctx)
	return data, batch, nil
}

func maybeDecompress(data []byte) ([]byte, error) {
	if len(data) < 2 || !bytes.Equal(data[:2], gzipMagic) {
		return data, nil
	}
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (f *FileSource) readBatch(ctx context.Context) uint32 {
	raw, err := os.ReadFile(f.Path + ".batch")
	if err != nil {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil {
		f.log.Warn(ctx, "malformed batch sidecar file, defaulting to batch 0", "path", f.Path+".batch", "error", err)
		return 0
	}
	return uint32(n)
}
