package stone

import (
	"io"
	"runtime"

	"github.com/orcaman/writerseeker"

	"github.com/aerynos/stone/internal/checksum"
	"github.com/aerynos/stone/internal/wire"
	"github.com/aerynos/stone/internal/zstdio"
)

// Writer builds a stone archive by appending payloads (spec §4.7). Each
// Write* call fully buffers that payload's stored (possibly compressed)
// body in memory — via an orcaman/writerseeker in-memory seekable buffer,
// so stored_size and the checksum are known before the header is emitted —
// then writes header and body to the destination in one pass. This is
// mode (a) of spec §4.7, used unconditionally: it works for both seekable
// and non-seekable destinations, unlike the seek-back mode (b), which this
// package reserves solely for back-filling num_payloads in the file header
// on Close.
//
// A Writer is not safe for concurrent use; call Close exactly once when
// done.
type Writer struct {
	dst         io.Writer
	seekable    io.WriteSeeker
	fileType    FileType
	concurrency int

	numPayloads   uint16
	declaredCount uint16
	countDeclared bool
	closed        bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithEncoderConcurrency sets the number of goroutines the zstd encoder may
// use for Zstd-compressed payloads (spec §4.2's "multi-threaded when
// configuration permits"). The default is runtime.GOMAXPROCS(0).
func WithEncoderConcurrency(n int) WriterOption {
	return func(w *Writer) { w.concurrency = n }
}

// WithPayloadCount pre-declares the number of payloads that will be
// written. It is required when the destination is not an io.WriteSeeker,
// since such a destination cannot be back-filled with the final
// num_payloads count (spec §4.7: "non-seekable sinks must be fed a
// pre-counted payload set").
func WithPayloadCount(n uint16) WriterOption {
	return func(w *Writer) { w.declaredCount, w.countDeclared = n, true }
}

// NewWriter begins a new archive of the given FileType, writing the 32-byte
// envelope immediately. If dst implements io.WriteSeeker, Close seeks back
// to fill in the final num_payloads; otherwise WithPayloadCount must have
// been supplied.
func NewWriter(dst io.Writer, fileType FileType, opts ...WriterOption) (*Writer, error) {
	w := &Writer{dst: dst, fileType: fileType, concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(w)
	}
	if seeker, ok := dst.(io.WriteSeeker); ok {
		w.seekable = seeker
	}
	if w.seekable == nil && !w.countDeclared {
		return nil, newErr(InvalidArgument, nil)
	}
	if err := writeEnvelope(dst, FileHeader{NumPayloads: w.declaredCount, FileType: fileType}); err != nil {
		return nil, wrapIO(err)
	}
	return w, nil
}

type countingWriter struct{ n uint64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += uint64(len(p))
	return len(p), nil
}

// writeBody buffers fill's output (the plain payload bytes), optionally
// compressing it, then emits the payload header followed by the stored
// body.
func (w *Writer) writeBody(kind PayloadKind, numRecords uint64, version uint16, compression Compression, fill func(io.Writer) error) error {
	if w.closed {
		return newErr(InvalidArgument, nil)
	}

	ws := &writerseeker.WriterSeeker{}
	var plain countingWriter
	var zenc *zstdio.Encoder
	var body io.Writer

	switch compression {
	case CompressionNone:
		body = io.MultiWriter(ws, &plain)
	case CompressionZstd:
		var err error
		zenc, err = zstdio.NewEncoder(ws, w.concurrency)
		if err != nil {
			return newErr(CompressionError, err)
		}
		body = io.MultiWriter(zenc, &plain)
	default:
		return newErr(InvalidArgument, nil)
	}

	if err := fill(body); err != nil {
		return wrapIO(err)
	}

	var storedSize uint64
	if zenc != nil {
		if err := zenc.Close(); err != nil {
			return newErr(CompressionError, err)
		}
		storedSize = zenc.StoredBytes()
	} else {
		storedSize = plain.n
	}

	stored, err := io.ReadAll(ws.Reader())
	if err != nil {
		return wrapIO(err)
	}

	header := PayloadHeader{
		StoredSize:  storedSize,
		PlainSize:   plain.n,
		Checksum:    checksum.Sum64(stored),
		NumRecords:  numRecords,
		Version:     version,
		Kind:        kind,
		Compression: compression,
	}
	if err := writePayloadHeader(wire.NewWriter(w.dst), header); err != nil {
		return wrapIO(err)
	}
	if _, err := w.dst.Write(stored); err != nil {
		return wrapIO(err)
	}
	w.numPayloads++
	return nil
}

// WriteMeta appends a Meta payload.
func (w *Writer) WriteMeta(records []MetaRecord, compression Compression) error {
	return w.writeBody(PayloadKindMeta, uint64(len(records)), 1, compression, func(body io.Writer) error {
		ww := wire.NewWriter(body)
		for _, rec := range records {
			if err := ww.WriteUint16(uint16(rec.Tag)); err != nil {
				return err
			}
			if err := writeMetaValue(ww, rec.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteLayout appends a Layout payload.
func (w *Writer) WriteLayout(records []LayoutRecord, compression Compression) error {
	return w.writeBody(PayloadKindLayout, uint64(len(records)), 1, compression, func(body io.Writer) error {
		ww := wire.NewWriter(body)
		for _, rec := range records {
			if err := writeLayoutRecord(ww, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteIndex appends an Index payload.
func (w *Writer) WriteIndex(records []IndexRecord, compression Compression) error {
	return w.writeBody(PayloadKindIndex, uint64(len(records)), 1, compression, func(body io.Writer) error {
		ww := wire.NewWriter(body)
		for _, rec := range records {
			if err := writeIndexRecord(ww, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAttributes appends an Attributes payload.
func (w *Writer) WriteAttributes(records []AttributeRecord, compression Compression) error {
	return w.writeBody(PayloadKindAttributes, uint64(len(records)), 1, compression, func(body io.Writer) error {
		ww := wire.NewWriter(body)
		for _, rec := range records {
			if err := writeAttributeRecord(ww, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteContent appends the Content payload, copying all of r. Content has
// no record count; num_records is written as 0.
func (w *Writer) WriteContent(r io.Reader, compression Compression) error {
	return w.writeBody(PayloadKindContent, 0, 1, compression, func(body io.Writer) error {
		_, err := io.Copy(body, r)
		return err
	})
}

// Close finalizes the archive. If the destination is seekable, it seeks
// back to the file header and fills in the final num_payloads count;
// otherwise it verifies the declared count (WithPayloadCount) matches the
// number of payloads actually written.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.seekable == nil {
		if w.numPayloads != w.declaredCount {
			return newErr(InvalidArgument, nil)
		}
		return nil
	}

	cur, err := w.seekable.Seek(0, io.SeekCurrent)
	if err != nil {
		return wrapIO(err)
	}
	if _, err := w.seekable.Seek(headerPrefixSize, io.SeekStart); err != nil {
		return wrapIO(err)
	}
	if err := writeFileHeader(wire.NewWriter(w.seekable), FileHeader{NumPayloads: w.numPayloads, FileType: w.fileType}); err != nil {
		return wrapIO(err)
	}
	if _, err := w.seekable.Seek(cur, io.SeekStart); err != nil {
		return wrapIO(err)
	}
	return nil
}
