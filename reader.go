package stone

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/xerrors"

	"github.com/aerynos/stone/internal/wire"
)

// Reader decodes a stone archive from an underlying byte stream. It owns
// that stream exclusively: payload handles returned by NextPayload borrow
// from it and are invalidated once the reader advances past them (spec
// §3 Lifecycle, §5).
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src       io.Reader
	version   Version
	header    FileHeader
	remaining uint16

	failErr *Error
	busy    bool
	current *Payload
}

// Open constructs a Reader over r, which must start at the beginning of a
// stone archive. It reads and validates the 32-byte envelope (spec §4.4).
func Open(r io.Reader) (*Reader, error) {
	version, header, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		src:       r,
		version:   version,
		header:    header,
		remaining: header.NumPayloads,
	}, nil
}

// OpenFile is a convenience constructor equivalent to the C ABI's
// stone_read_file: it opens a Reader directly over an *os.File.
func OpenFile(f *os.File) (*Reader, error) {
	return Open(f)
}

// OpenBuffer is a convenience constructor equivalent to the C ABI's
// stone_read_buf: it opens a Reader over an in-memory buffer.
func OpenBuffer(buf []byte) (*Reader, error) {
	return Open(bytes.NewReader(buf))
}

// Version reports the archive's format version.
func (r *Reader) Version() Version { return r.version }

// Header returns the decoded v1 file header.
func (r *Reader) Header() FileHeader { return r.header }

// NextPayload advances to the next payload. It returns NoMorePayloads
// (not an error) once num_payloads payloads have been produced or the
// underlying stream ends cleanly at a header boundary (spec §4.4).
//
// It returns ReaderBusy if a ContentReader obtained from the current
// payload is still open (spec §4.6, §5, §8.8).
func (r *Reader) NextPayload() (*Payload, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	if r.busy {
		return nil, newErr(ReaderBusy, nil)
	}
	if r.current != nil {
		if err := r.current.ensureDrained(); err != nil {
			return nil, err
		}
		r.current = nil
	}
	if r.remaining == 0 {
		return nil, NoMorePayloads
	}

	wr := wire.NewReader(r.src)
	storedSize, err := wr.ReadUint64()
	if err != nil {
		if xerrors.Is(err, io.EOF) {
			// Clean end of stream exactly at a header boundary: treat the
			// same as the counter reaching zero (spec §4.4).
			r.remaining = 0
			return nil, NoMorePayloads
		}
		ferr := translateReadErr(err)
		r.failErr = ferr
		return nil, ferr
	}
	header, err := readPayloadHeaderAfterStoredSize(wr, storedSize)
	if err != nil {
		ferr := translateReadErr(err)
		r.failErr = ferr
		return nil, ferr
	}
	r.remaining--

	bounded := io.LimitReader(r.src, int64(header.StoredSize))
	p, perr := newPayload(r, header, bounded)
	if perr != nil {
		r.failErr = perr
		return nil, perr
	}
	r.current = p
	return p, nil
}
