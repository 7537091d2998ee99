package input

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"

	"github.com/lucrnz/deltaparse/internal/util"
)

// ErrLimitExceeded is returned by readers once more than the configured
// number of decompressed bytes has been read.
var ErrLimitExceeded = errors.New("input exceeded maximum size")

// Open opens path on fsys and returns a reader over its decompressed
// contents. maxBytes <= 0 disables the size limit.
func Open(fsys afero.Fs, path string, maxBytes int64) (io.ReadCloser, Compression, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, None, fmt.Errorf("failed to open input %q: %w", path, err)
	}
	rc, kind, err := NewReader(f, maxBytes)
	if err != nil {
		f.Close()
		return nil, None, fmt.Errorf("failed to read input %q: %w", path, err)
	}
	return &multiCloser{Reader: rc, closers: []io.Closer{rc, f}}, kind, nil
}

// NewReader sniffs r for a known compression format and wraps it with the
// matching decoder. Closing the result does not close r.
func NewReader(r io.Reader, maxBytes int64) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(magicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}
	kind := Detect(header)

	var dec io.Reader
	var closer io.Closer
	switch kind {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("gzip: %w", err)
		}
		dec, closer = zr, zr
	case Bzip2:
		dec = bzip2.NewReader(br)
	case Xz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("xz: %w", err)
		}
		dec = xr
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("zstd: %w", err)
		}
		rc := zr.IOReadCloser()
		dec, closer = rc, rc
	default:
		dec = br
	}

	if maxBytes > 0 {
		dec = &limitReader{r: dec, remaining: maxBytes, max: maxBytes}
	}
	mc := &multiCloser{Reader: dec}
	if closer != nil {
		mc.closers = append(mc.closers, closer)
	}
	return mc, kind, nil
}

type limitReader struct {
	r         io.Reader
	remaining int64
	max       int64
}

// Read reads at most one byte beyond the limit so that an input of exactly
// max bytes is still accepted.
func (l *limitReader) Read(p []byte) (int, error) {
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	if int64(n) > l.remaining {
		n = int(l.remaining)
		l.remaining = 0
		return n, fmt.Errorf("%w: limit is %s", ErrLimitExceeded, util.HumanReadableBytes(l.max))
	}
	l.remaining -= int64(n)
	return n, err
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
