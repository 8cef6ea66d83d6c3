package stone

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aerynos/stone/internal/checksum"
)

// buildArchive writes a small but representative archive (one payload of
// each record kind, plus Content) to a temp file and returns it opened for
// reading. The caller must close it; the file is removed at test cleanup.
func buildArchive(t *testing.T, compression Compression) *os.File {
	t.Helper()
	f, err := os.CreateTemp("", "stone-test-*.stone")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })

	w, err := NewWriter(f, FileTypeBinary)
	if err != nil {
		t.Fatal(err)
	}

	metaRecords := []MetaRecord{
		{Tag: MetaTagName, Value: MetaValue{Type: MetaPrimitiveString, String: "hello"}},
		{Tag: MetaTagPackageSize, Value: MetaValue{Type: MetaPrimitiveUint64, Uint: 4096}},
		{Tag: MetaTagDepends, Value: MetaValue{
			Type: MetaPrimitiveDependency,
			Dependency: &MetaDependencyValue{Kind: MetaDependencyPackageName, Name: "glibc"},
		}},
	}
	if err := w.WriteMeta(metaRecords, compression); err != nil {
		t.Fatal(err)
	}

	digest := checksum.Sum128([]byte("abcabcabc"))
	layoutRecords := []LayoutRecord{
		{UID: 0, GID: 0, Mode: 0o644, Type: LayoutFileTypeRegular, Hash: digest, Target: "usr/bin/hello"},
		{UID: 0, GID: 0, Mode: 0o755, Type: LayoutFileTypeDirectory, Target: "usr/bin"},
		{UID: 0, GID: 0, Mode: 0o777, Type: LayoutFileTypeSymlink, Source: "hello", Target: "usr/bin/hello-link"},
	}
	if err := w.WriteLayout(layoutRecords, compression); err != nil {
		t.Fatal(err)
	}

	indexRecords := []IndexRecord{
		{Start: 0, End: 9, Digest: digest},
	}
	if err := w.WriteIndex(indexRecords, compression); err != nil {
		t.Fatal(err)
	}

	attrRecords := []AttributeRecord{
		{Key: []byte("builder"), Value: []byte("stonetool")},
	}
	if err := w.WriteAttributes(attrRecords, compression); err != nil {
		t.Fatal(err)
	}

	if err := w.WriteContent(bytes.NewReader([]byte("abcabcabc")), compression); err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestRoundTripUncompressed(t *testing.T) {
	testRoundTrip(t, CompressionNone)
}

func TestRoundTripZstd(t *testing.T) {
	testRoundTrip(t, CompressionZstd)
}

func testRoundTrip(t *testing.T, compression Compression) {
	f := buildArchive(t, compression)
	defer f.Close()

	r, err := OpenFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if r.Version() != V1 {
		t.Fatalf("Version() = %d, want 1", r.Version())
	}
	if got, want := r.Header().NumPayloads, uint16(5); got != want {
		t.Fatalf("NumPayloads = %d, want %d", got, want)
	}

	var gotMeta []MetaRecord
	var gotLayout []LayoutRecord
	var gotIndex []IndexRecord
	var gotAttrs []AttributeRecord
	var gotContent []byte

	for {
		p, err := r.NextPayload()
		if err != nil {
			if err == NoMorePayloads {
				break
			}
			t.Fatal(err)
		}
		switch p.Kind() {
		case PayloadKindMeta:
			mr, err := p.Meta()
			if err != nil {
				t.Fatal(err)
			}
			for {
				rec, err := mr.Next()
				if err == EndOfRecords {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				gotMeta = append(gotMeta, rec)
			}
		case PayloadKindLayout:
			lr, err := p.Layout()
			if err != nil {
				t.Fatal(err)
			}
			for {
				rec, err := lr.Next()
				if err == EndOfRecords {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				gotLayout = append(gotLayout, rec)
			}
		case PayloadKindIndex:
			ir, err := p.Index()
			if err != nil {
				t.Fatal(err)
			}
			for {
				rec, err := ir.Next()
				if err == EndOfRecords {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				gotIndex = append(gotIndex, rec)
			}
		case PayloadKindAttributes:
			ar, err := p.Attributes()
			if err != nil {
				t.Fatal(err)
			}
			for {
				rec, err := ar.Next()
				if err == EndOfRecords {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				gotAttrs = append(gotAttrs, rec)
			}
		case PayloadKindContent:
			cr, err := p.Content()
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if _, err := cr.WriteTo(&buf); err != nil {
				t.Fatal(err)
			}
			if !cr.IsChecksumValid() {
				t.Fatal("content checksum not valid after full consumption")
			}
			gotContent = buf.Bytes()
			cr.Close()
		}
	}

	if diff := cmp.Diff("hello", gotMeta[0].Value.String); diff != "" {
		t.Errorf("meta[0] string mismatch (-want +got):\n%s", diff)
	}
	if got, want := len(gotLayout), 3; got != want {
		t.Fatalf("len(layout) = %d, want %d", got, want)
	}
	if got, want := gotLayout[0].Target, "usr/bin/hello"; got != want {
		t.Errorf("layout[0].Target = %q, want %q", got, want)
	}
	if got, want := len(gotIndex), 1; got != want {
		t.Fatalf("len(index) = %d, want %d", got, want)
	}
	if got, want := gotIndex[0].Digest, gotLayout[0].Hash; got != want {
		t.Errorf("index digest %x != regular layout hash %x", got, want)
	}
	if diff := cmp.Diff([]byte("builder"), gotAttrs[0].Key); diff != "" {
		t.Errorf("attribute key mismatch (-want +got):\n%s", diff)
	}
	if got, want := string(gotContent), "abcabcabc"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	if _, err := r.NextPayload(); err != NoMorePayloads {
		t.Fatalf("NextPayload after last payload = %v, want NoMorePayloads", err)
	}
}

func TestEmptyArchive(t *testing.T) {
	f, err := os.CreateTemp("", "stone-test-empty-*.stone")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w, err := NewWriter(f, FileTypeBinary)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != HeaderSize {
		t.Fatalf("empty archive size = %d, want %d", info.Size(), HeaderSize)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	r, err := OpenFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if r.Header().NumPayloads != 0 {
		t.Fatalf("NumPayloads = %d, want 0", r.Header().NumPayloads)
	}
	if _, err := r.NextPayload(); err != NoMorePayloads {
		t.Fatalf("NextPayload on empty archive = %v, want NoMorePayloads", err)
	}
}

func TestNotAStone(t *testing.T) {
	_, err := OpenBuffer(bytes.Repeat([]byte{0}, int(HeaderSize)))
	var se *Error
	if !asError(err, &se) || se.Kind != NotAStone {
		t.Fatalf("Open(zeroes) = %v, want NotAStone", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[0], buf[1], buf[2], buf[3] = byte(magic>>24), byte(magic>>16), byte(magic>>8), byte(magic)
	buf[7] = 9 // version = 9
	_, err := OpenBuffer(buf)
	var se *Error
	if !asError(err, &se) || se.Kind != UnsupportedVersion {
		t.Fatalf("Open(version=9) = %v, want UnsupportedVersion", err)
	}
	if se.Version != 9 {
		t.Fatalf("Error.Version = %d, want 9", se.Version)
	}
}

// asError is a small errors.As stand-in kept local to avoid importing errors
// in every test file that needs it. It only type-asserts err itself; wrapped
// errors are not unwrapped.
func asError(err error, target **Error) bool {
	se, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = se
	return true
}
