// Package zstdio adapts github.com/klauspost/compress/zstd to the shape
// stone's compression adapter needs (spec §4.2): a bounded decoder reading
// exactly plain_size decoded bytes from exactly stored_size stored bytes,
// and a multi-threaded encoder that reports how many stored bytes it
// actually wrote.
//
// klauspost/compress is named directly in the teacher's go.mod but, in the
// teacher's own code, only ever exercised transitively through pgzip; here
// it is wired directly, the same role the retrieved pack's rclone and
// go.podman.io/storage chunked-compression examples use it for.
package zstdio

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Decoder decompresses a zstd stream. It is a thin wrapper so callers don't
// need to import klauspost/compress directly.
type Decoder struct {
	dec *zstd.Decoder
}

// NewDecoder wraps r, which must yield exactly the stored (compressed)
// bytes of one payload body and nothing past it (callers bound r with
// io.LimitReader against the payload header's stored_size).
func NewDecoder(r io.Reader) (*Decoder, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{dec: dec}, nil
}

// Read decompresses into p.
func (d *Decoder) Read(p []byte) (int, error) {
	return d.dec.Read(p)
}

// Close releases the decoder's background goroutines. It does not close
// the underlying reader.
func (d *Decoder) Close() {
	d.dec.Close()
}

// Encoder compresses a stream and counts the stored (compressed) bytes it
// writes, needed to back-fill a payload header's stored_size (spec §4.7).
type Encoder struct {
	enc *zstd.Encoder
	cw  *countingWriter
}

// NewEncoder wraps w, compressing everything written to the returned
// Encoder and forwarding the compressed bytes to w.
func NewEncoder(w io.Writer, concurrency int) (*Encoder, error) {
	cw := &countingWriter{w: w}
	opts := []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedDefault)}
	if concurrency > 0 {
		opts = append(opts, zstd.WithEncoderConcurrency(concurrency))
	}
	enc, err := zstd.NewWriter(cw, opts...)
	if err != nil {
		return nil, err
	}
	return &Encoder{enc: enc, cw: cw}, nil
}

// Write compresses p.
func (e *Encoder) Write(p []byte) (int, error) {
	return e.enc.Write(p)
}

// Close flushes and finalizes the zstd frame. The writer must not be used
// afterward. It must be called exactly at a payload boundary (spec §4.2):
// the caller's stored_size is only correct once Close has returned.
func (e *Encoder) Close() error {
	return e.enc.Close()
}

// StoredBytes returns the number of compressed bytes written to the
// underlying writer so far. Valid to call after Close.
func (e *Encoder) StoredBytes() uint64 {
	return e.cw.n
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}
