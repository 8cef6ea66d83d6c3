package stone

import "io"

// contentBufFloor is the minimum chunk size used when extracting content,
// per spec §4.6 ("a fixed 64 KiB floor").
const contentBufFloor = 64 * 1024

// ContentReader extracts the Content payload, either by pulling decoded
// bytes directly (it implements io.Reader) or by draining itself onto a
// sink (WriteTo, satisfying io.WriterTo — the "sink-to-fd" mode of spec
// §4.6; any io.Writer, including an *os.File, works as the sink).
//
// It exclusively borrows its parent Reader: while a ContentReader is live,
// (*Reader).NextPayload returns ReaderBusy (spec §4.6, §5). Close releases
// the borrow.
type ContentReader struct {
	p             *Payload
	read          uint64
	finalized     bool
	checksumValid bool
}

func newContentReader(p *Payload) (*ContentReader, error) {
	if err := p.checkKind(PayloadKindContent); err != nil {
		return nil, err
	}
	if p.contentTaken {
		return nil, newErr(InvalidArgument, nil)
	}
	p.contentTaken = true
	p.reader.busy = true
	return &ContentReader{p: p}, nil
}

// BufHint returns the suggested chunk size for pull-style reads. It always
// returns the fixed 64 KiB floor; the decompressor's internal frame size is
// not consulted.
func (c *ContentReader) BufHint() int {
	return contentBufFloor
}

// Read decodes up to len(buf) bytes of the content payload. On full
// consumption (cumulative bytes read equals the payload's plain_size) the
// checksum accumulator is finalized and compared; a mismatch is returned
// from this call and is sticky on the parent reader thereafter. Early
// termination (the caller simply stops calling Read) leaves the checksum
// unverified: IsChecksumValid reports false in that case, with no error.
func (c *ContentReader) Read(buf []byte) (int, error) {
	if c.p.reader.failErr != nil {
		return 0, c.p.reader.failErr
	}
	if c.finalized {
		return 0, io.EOF
	}
	n, err := c.p.plain.Read(buf)
	c.read += uint64(n)
	if c.read >= c.p.header.PlainSize {
		if ferr := c.finalize(); ferr != nil {
			return n, ferr
		}
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	if err != nil {
		if err == io.EOF {
			return n, c.p.fail(newErr(UnexpectedEOF, nil))
		}
		return n, c.p.fail(translateReadErr(err))
	}
	return n, nil
}

// WriteTo streams the fully decoded content payload to w in BufHint-sized
// chunks, retrying partial writes until each chunk is fully drained (spec
// §4.6 "sink-to-fd" mode). It finalizes and verifies the checksum on
// completion, the same as fully draining Read.
func (c *ContentReader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, c.BufHint())
	var total int64
	for {
		n, rerr := c.Read(buf)
		if n > 0 {
			off := 0
			for off < n {
				wn, werr := w.Write(buf[off:n])
				off += wn
				total += int64(wn)
				if werr != nil {
					return total, wrapIO(werr)
				}
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}

// IsChecksumValid reports whether the payload's checksum has been verified.
// It is only meaningful after the content has been fully consumed (via Read
// or WriteTo); it returns false both before completion and after an early
// termination.
func (c *ContentReader) IsChecksumValid() bool {
	return c.finalized && c.checksumValid
}

// Close releases the exclusive borrow on the parent reader. If the content
// was not fully consumed, the underlying stream is still advanced past any
// remaining stored bytes so the next payload can be read correctly, but the
// checksum is left unverified. Either way, this is the payload's one and
// only drain: it delegates to the parent Payload's cached drain state
// (shared with ensureDrained, called later by NextPayload), so the
// decompressor is never closed more than once.
func (c *ContentReader) Close() error {
	defer func() { c.p.reader.busy = false }()
	if c.finalized {
		return nil
	}
	c.finalized = true
	return c.p.drainUnverified()
}

// finalize drains the payload (delegating to the parent Payload's cached
// drain state, shared with ensureDrained) and records whether the checksum
// matched. It is called once bytes read reaches plain_size.
func (c *ContentReader) finalize() *Error {
	if c.finalized {
		return nil
	}
	c.finalized = true
	err := c.p.ensureDrained()
	c.checksumValid = err == nil
	return err
}

// Content returns a content extractor for this payload, or WrongPayloadKind
// if it is not a Content payload, or InvalidArgument if one was already
// taken.
func (p *Payload) Content() (*ContentReader, error) {
	return newContentReader(p)
}
