package stone

import (
	"io"

	"github.com/aerynos/stone/internal/checksum"
	"github.com/aerynos/stone/internal/zstdio"
)

// Payload is a handle onto one payload of an archive. It borrows its parent
// Reader exclusively (spec §4.4, §5): it becomes invalid once the reader
// advances to the next payload.
type Payload struct {
	reader *Reader
	header PayloadHeader

	stored io.Reader // exactly header.StoredSize stored bytes, bounded
	teed   io.Reader // stored, teed into hasher as it is read
	hasher *checksum.Hasher64
	zdec   *zstdio.Decoder // non-nil when Compression == Zstd
	plain  io.Reader       // decoded bytes: teed directly, or zdec wrapping teed

	recordsRead uint64
	drained     bool
	drainErr    *Error

	contentTaken bool
}

func newPayload(reader *Reader, header PayloadHeader, stored io.Reader) (*Payload, *Error) {
	p := &Payload{reader: reader, header: header}
	p.hasher = checksum.NewHasher64()
	p.stored = stored
	p.teed = io.TeeReader(p.stored, payloadHashWriter{p.hasher})
	switch header.Compression {
	case CompressionNone:
		p.plain = p.teed
	case CompressionZstd:
		zdec, err := zstdio.NewDecoder(p.teed)
		if err != nil {
			return nil, newErr(CompressionError, err)
		}
		p.zdec = zdec
		p.plain = zdec
	default:
		return nil, newErr(CompressionError, nil)
	}
	return p, nil
}

type payloadHashWriter struct{ h *checksum.Hasher64 }

func (w payloadHashWriter) Write(p []byte) (int, error) { return w.h.Write(p) }

// Header returns a copy of the payload's fixed-width header.
func (p *Payload) Header() PayloadHeader { return p.header }

// Kind returns the payload's kind.
func (p *Payload) Kind() PayloadKind { return p.header.Kind }

func (p *Payload) checkKind(want PayloadKind) error {
	if p.reader.failErr != nil {
		return p.reader.failErr
	}
	if p.header.Kind != want {
		return newErr(WrongPayloadKind, nil)
	}
	return nil
}

// Meta returns a record iterator for a Meta payload, or WrongPayloadKind if
// this payload is of a different kind.
func (p *Payload) Meta() (*MetaReader, error) {
	if err := p.checkKind(PayloadKindMeta); err != nil {
		return nil, err
	}
	return &MetaReader{p: p}, nil
}

// Layout returns a record iterator for a Layout payload, or WrongPayloadKind
// if this payload is of a different kind.
func (p *Payload) Layout() (*LayoutReader, error) {
	if err := p.checkKind(PayloadKindLayout); err != nil {
		return nil, err
	}
	return &LayoutReader{p: p}, nil
}

// Index returns a record iterator for an Index payload, or WrongPayloadKind
// if this payload is of a different kind.
func (p *Payload) Index() (*IndexReader, error) {
	if err := p.checkKind(PayloadKindIndex); err != nil {
		return nil, err
	}
	return &IndexReader{p: p}, nil
}

// Attributes returns a record iterator for an Attributes payload, or
// WrongPayloadKind if this payload is of a different kind.
func (p *Payload) Attributes() (*AttributesReader, error) {
	if err := p.checkKind(PayloadKindAttributes); err != nil {
		return nil, err
	}
	return &AttributesReader{p: p}, nil
}

// beginRecord is called by each kind-specific reader before decoding a
// record. It enforces num_records and triggers end-of-payload draining and
// checksum verification once the count is exhausted (spec §4.5, §4.8).
func (p *Payload) beginRecord() error {
	if p.reader.failErr != nil {
		return p.reader.failErr
	}
	if p.recordsRead >= p.header.NumRecords {
		if err := p.ensureDrained(); err != nil {
			return err
		}
		return EndOfRecords
	}
	p.recordsRead++
	return nil
}

// fail marks the parent reader sticky-failed with err and returns err, so
// every handle derived from the same reader observes the same failure
// (spec §7, and the "sticky across handle types" supplement in
// SPEC_FULL.md).
func (p *Payload) fail(err *Error) *Error {
	if err == nil {
		return nil
	}
	p.reader.failErr = err
	return err
}

// drainRemaining copies any stored bytes this payload's consumer never read
// into the hasher and closes the decompressor, if any. It is the shared
// first half of ensureDrained and drainUnverified; it never compares the
// result against the header checksum, so callers that need verification
// must do that themselves.
func (p *Payload) drainRemaining() *Error {
	if _, err := io.Copy(io.Discard, p.teed); err != nil {
		return p.fail(translateReadErr(err))
	}
	if p.zdec != nil {
		p.zdec.Close()
	}
	return nil
}

// ensureDrained consumes any stored bytes this payload's consumer never
// read, finalizes the checksum accumulator, and compares it against the
// payload header. It is idempotent: later calls (including one triggered by
// the parent Reader's NextPayload, spec §4.8) return the cached result
// rather than draining or closing the decompressor a second time.
// This implements the "dropping a records payload always validates the
// checksum" rule (spec §4.8).
func (p *Payload) ensureDrained() *Error {
	if p.drained {
		return p.drainErr
	}
	p.drained = true
	if err := p.drainRemaining(); err != nil {
		p.drainErr = err
		return err
	}
	if p.hasher.Sum() != p.header.Checksum {
		p.drainErr = p.fail(newErr(ChecksumMismatch, nil))
		return p.drainErr
	}
	return nil
}

// drainUnverified records the payload as drained without comparing the
// checksum, for the content extractor's early-termination path (spec §4.6:
// "Early termination leaves the checksum unverified"). Like ensureDrained,
// it is idempotent and caches its result in p.drained/p.drainErr, so a
// later ensureDrained call from NextPayload sees the payload as already
// drained and does not drain or close the decompressor again.
func (p *Payload) drainUnverified() *Error {
	if p.drained {
		return p.drainErr
	}
	p.drained = true
	p.drainErr = p.drainRemaining()
	return p.drainErr
}
