// Package wire implements the primitive binary codec shared by every stone
// payload kind: fixed-width big-endian integers, length-prefixed byte
// strings, and the read-retry-until-full discipline the format requires of
// a streaming decoder.
//
// It mirrors the struct-at-a-time style of the teacher's squashfs codec
// (internal/squashfs/reader.go, writer.go) but is big-endian, since stone's
// wire format is big-endian while squashfs's is little-endian.
package wire

import (
	"encoding/binary"
	"io"
)

// Reader decodes primitives from an underlying byte stream, retrying short
// reads until the requested number of bytes has been consumed or the
// stream reports an error. It does not buffer beyond what a single
// primitive needs.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for primitive decoding.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

func (r *Reader) readFull(buf []byte) error {
	_, err := io.ReadFull(r.r, buf)
	return err
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	var buf [1]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	var buf [2]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadUint64 reads a big-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	var buf [8]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadInt8 reads a single signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads exactly n bytes and returns them as a string, for
// fields whose length was already determined by an earlier, separately
// framed field.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadString16 reads a u16 length prefix followed by that many bytes of
// UTF-8 text: the codec's short-string shape (spec §4.3). The record readers
// in this module do not call it; Layout records carry their u16 lengths in
// the fixed prefix and read the bytes with ReadString.
func (r *Reader) ReadString16() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadString32 reads a u32 length prefix followed by that many bytes of
// UTF-8 text. Used for Meta String values and Dependency/Provider names
// (spec §4.5), which use a wider prefix than other strings in the format.
func (r *Reader) ReadString32() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadString64 reads a u64 length prefix followed by that many bytes. Used
// by Attribute records' key and value fields (spec §3).
func (r *Reader) ReadString64() ([]byte, error) {
	n, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// Writer encodes primitives to an underlying byte stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for primitive encoding.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) error {
	_, err := w.w.Write([]byte{v})
	return err
}

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

// WriteUint64 writes a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

// WriteInt8 writes a single signed byte.
func (w *Writer) WriteInt8(v int8) error { return w.WriteUint8(uint8(v)) }

// WriteInt16 writes a big-endian int16.
func (w *Writer) WriteInt16(v int16) error { return w.WriteUint16(uint16(v)) }

// WriteInt32 writes a big-endian int32.
func (w *Writer) WriteInt32(v int32) error { return w.WriteUint32(uint32(v)) }

// WriteInt64 writes a big-endian int64.
func (w *Writer) WriteInt64(v int64) error { return w.WriteUint64(uint64(v)) }

// WriteBytes writes b verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteString16 writes a u16 length prefix followed by s.
func (w *Writer) WriteString16(s string) error {
	if err := w.WriteUint16(uint16(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}

// WriteString32 writes a u32 length prefix followed by s.
func (w *Writer) WriteString32(s string) error {
	if err := w.WriteUint32(uint32(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}

// WriteString64 writes a u64 length prefix followed by b.
func (w *Writer) WriteString64(b []byte) error {
	if err := w.WriteUint64(uint64(len(b))); err != nil {
		return err
	}
	return w.WriteBytes(b)
}
