package stone

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeSimpleMetaArchive writes a single uncompressed Meta payload with one
// String record and returns the encoded bytes, matching spec §8 scenario 2.
func writeSimpleMetaArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	rec := MetaRecord{Tag: MetaTagName, Value: MetaValue{Type: MetaPrimitiveString, String: "hello"}}
	if err := w.WriteMeta([]MetaRecord{rec}, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSingleMetaPayloadSize(t *testing.T) {
	data := writeSimpleMetaArchive(t)
	// 32 (envelope) + 36 (payload header) + 2 (tag) + 1 (type) + 4 (len) + 5 ("hello")
	const wantBodySize = 2 + 1 + 4 + 5
	wantTotal := int(HeaderSize) + payloadHeaderSize + wantBodySize
	if len(data) != wantTotal {
		t.Fatalf("archive size = %d, want %d", len(data), wantTotal)
	}

	r, err := OpenBuffer(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	h := p.Header()
	if h.StoredSize != uint64(wantBodySize) || h.PlainSize != uint64(wantBodySize) {
		t.Fatalf("StoredSize/PlainSize = %d/%d, want %d/%d", h.StoredSize, h.PlainSize, wantBodySize, wantBodySize)
	}
	mr, err := p.Meta()
	if err != nil {
		t.Fatal(err)
	}
	rec, err := mr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("hello", rec.Value.String); diff != "" {
		t.Errorf("record string mismatch (-want +got):\n%s", diff)
	}
}

// TestReservedBytesTolerance feeds a v1 envelope whose reserved tail is
// non-zero and asserts Open still succeeds with the header fields decoded
// correctly (spec §4.4 step 3, §9: reserved bytes are "tolerated if
// non-zero").
func TestReservedBytesTolerance(t *testing.T) {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], magic)
	binary.BigEndian.PutUint32(buf[4:8], uint32(V1))
	binary.BigEndian.PutUint16(buf[8:10], 7)
	buf[10] = byte(FileTypeRepository)
	for i := 11; i < len(buf); i++ {
		buf[i] = 0xAA
	}

	r, err := OpenBuffer(buf)
	if err != nil {
		t.Fatalf("Open with non-zero reserved bytes = %v, want success", err)
	}
	if got, want := r.Header().NumPayloads, uint16(7); got != want {
		t.Errorf("NumPayloads = %d, want %d", got, want)
	}
	if got, want := r.Header().FileType, FileTypeRepository; got != want {
		t.Errorf("FileType = %v, want %v", got, want)
	}
}

// TestCorruptedChecksum flips a byte in the Meta payload body and asserts
// record decoding still succeeds but payload completion reports
// ChecksumMismatch, and the reader becomes sticky (spec §8 scenario 3, §7).
func TestCorruptedChecksum(t *testing.T) {
	data := writeSimpleMetaArchive(t)
	// The body starts right after the 32-byte envelope and the
	// payloadHeaderSize-byte payload header.
	bodyOffset := int(HeaderSize) + payloadHeaderSize
	data[bodyOffset] ^= 0xFF // corrupt the tag's high byte

	r, err := OpenBuffer(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	mr, err := p.Meta()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mr.Next(); err != nil {
		t.Fatalf("decoding the (corrupted but structurally intact) record failed early: %v", err)
	}

	_, err = r.NextPayload()
	var se *Error
	if !asError(err, &se) || se.Kind != ChecksumMismatch {
		t.Fatalf("NextPayload after corrupted body = %v, want ChecksumMismatch", err)
	}

	// Sticky: every subsequent call returns the same error.
	if _, err2 := r.NextPayload(); !asError(err2, &se) || se.Kind != ChecksumMismatch {
		t.Fatalf("second NextPayload = %v, want sticky ChecksumMismatch", err2)
	}
}

// TestTruncatedZstdLayout cuts a zstd-compressed Layout payload short and
// asserts the eventual read surfaces UnexpectedEOF rather than hanging or
// silently truncating (spec §8 scenario 4).
func TestTruncatedZstdLayout(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	records := make([]LayoutRecord, 200)
	for i := range records {
		records[i] = LayoutRecord{Type: LayoutFileTypeDirectory, Target: "dir/subdir/entry-with-a-longer-name"}
	}
	if err := w.WriteLayout(records, CompressionZstd); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	bodyOffset := int(HeaderSize) + payloadHeaderSize
	storedSize := binary.BigEndian.Uint64(data[HeaderSize : HeaderSize+8])
	if storedSize < 20 {
		t.Fatalf("stored_size too small for this test: %d", storedSize)
	}
	truncated := data[:bodyOffset+10]

	r, err := OpenBuffer(truncated)
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	lr, err := p.Layout()
	if err != nil {
		t.Fatal(err)
	}
	var lastErr error
	for i := 0; i < len(records)+1; i++ {
		if _, lastErr = lr.Next(); lastErr != nil {
			break
		}
	}
	var se *Error
	if !asError(lastErr, &se) || se.Kind != UnexpectedEOF {
		t.Fatalf("reading truncated layout payload = %v, want UnexpectedEOF", lastErr)
	}
}

// TestUnknownMetaTag writes a Meta record with a tag outside the defined
// set, asserts it decodes to MetaTagUnknown without error, and that
// re-encoding with the original tag value reproduces the same bytes (spec
// §8 scenario 5 / invariant 6).
func TestUnknownMetaTag(t *testing.T) {
	const weirdTag = MetaTag(0xABCD)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	rec := MetaRecord{Tag: weirdTag, Value: MetaValue{Type: MetaPrimitiveUint32, Uint: 42}}
	if err := w.WriteMeta([]MetaRecord{rec}, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenBuffer(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	mr, err := p.Meta()
	if err != nil {
		t.Fatal(err)
	}
	got, err := mr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if got.Tag != MetaTagUnknown {
		t.Fatalf("Tag = %v, want MetaTagUnknown", got.Tag)
	}
	if got.Value.Uint != 42 {
		t.Fatalf("Value.Uint = %d, want 42", got.Value.Uint)
	}

	// Re-encode with the original (preserved) tag value and compare bytes.
	var buf2 bytes.Buffer
	w2, err := NewWriter(&buf2, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := w2.WriteMeta([]MetaRecord{{Tag: weirdTag, Value: got.Value}}, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatalf("re-encoded bytes differ from the original")
	}
}

// TestReaderBusy asserts that NextPayload refuses to advance while a
// content extractor from the current payload is still open, and that
// extraction to an io.Writer reproduces the exact bytes with a valid
// checksum (spec §8 scenario 6, §4.6, §5).
func TestReaderBusy(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(2))
	if err != nil {
		t.Fatal(err)
	}
	content := bytes.Repeat([]byte("abc"), 1000)
	if err := w.WriteContent(bytes.NewReader(content), CompressionZstd); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAttributes([]AttributeRecord{{Key: []byte("k"), Value: []byte("v")}}, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenBuffer(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	cr, err := p.Content()
	if err != nil {
		t.Fatal(err)
	}

	_, busyErr := r.NextPayload()
	var se *Error
	if !asError(busyErr, &se) || se.Kind != ReaderBusy {
		t.Fatalf("NextPayload while content reader live = %v, want ReaderBusy", busyErr)
	}

	var extracted bytes.Buffer
	n, err := cr.WriteTo(&extracted)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(content)) {
		t.Fatalf("WriteTo wrote %d bytes, want %d", n, len(content))
	}
	if !bytes.Equal(extracted.Bytes(), content) {
		t.Fatal("extracted content does not match original")
	}
	if !cr.IsChecksumValid() {
		t.Fatal("IsChecksumValid() = false after full consumption")
	}
	if err := cr.Close(); err != nil {
		t.Fatal(err)
	}

	// The borrow is released: the next payload is now reachable.
	p2, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	if p2.Kind() != PayloadKindAttributes {
		t.Fatalf("next payload kind = %v, want Attributes", p2.Kind())
	}
}

// TestContentEarlyTermination stops reading a content payload before it is
// fully drained and asserts IsChecksumValid reports false with no error
// (spec §4.6 "early termination").
func TestContentEarlyTermination(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	content := bytes.Repeat([]byte("x"), 1<<20)
	if err := w.WriteContent(bytes.NewReader(content), CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenBuffer(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.NextPayload()
	if err != nil {
		t.Fatal(err)
	}
	cr, err := p.Content()
	if err != nil {
		t.Fatal(err)
	}
	small := make([]byte, 10)
	if _, err := io.ReadFull(cr, small); err != nil {
		t.Fatal(err)
	}
	if cr.IsChecksumValid() {
		t.Fatal("IsChecksumValid() = true before full consumption")
	}
	if err := cr.Close(); err != nil {
		t.Fatal(err)
	}
	if cr.IsChecksumValid() {
		t.Fatal("IsChecksumValid() = true after early Close")
	}
}
