package stone

import (
	"bytes"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/aerynos/stone/internal/checksum"
)

// TestLayoutRecordRoundTrip builds layout records with realistic POSIX mode
// bits, matching the way the teacher's own squashfs writer tests build file
// modes (internal/squashfs/writer_test.go, before this tree was trimmed to
// just the stone engine).
func TestLayoutRecordRoundTrip(t *testing.T) {
	digest := checksum.Sum128([]byte("payload"))
	cases := []LayoutRecord{
		{
			UID: 0, GID: 0,
			Mode:   unix.S_IRUSR | unix.S_IWUSR | unix.S_IRGRP | unix.S_IROTH,
			Type:   LayoutFileTypeRegular,
			Hash:   digest,
			Target: "etc/passwd",
		},
		{
			UID: 1000, GID: 1000,
			Mode:   unix.S_IRUSR | unix.S_IWUSR | unix.S_IXUSR | unix.S_IRGRP | unix.S_IXGRP | unix.S_IROTH | unix.S_IXOTH,
			Type:   LayoutFileTypeDirectory,
			Target: "home/user",
		},
		{
			UID: 0, GID: 0,
			Mode:   unix.S_IRWXU | unix.S_IRWXG | unix.S_IRWXO,
			Type:   LayoutFileTypeSymlink,
			Source: "/usr/bin/hello",
			Target: "bin/hello",
		},
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLayout(cases, CompressionNone); err != nil {
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
	lr, err := p.Layout()
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range cases {
		got, err := lr.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got != want {
			t.Errorf("record %d = %+v, want %+v", i, got, want)
		}
	}
	if _, err := lr.Next(); err != EndOfRecords {
		t.Fatalf("Next after last record = %v, want EndOfRecords", err)
	}
}

// TestWrongPayloadKind asserts that requesting a mismatched record reader
// on a payload returns WrongPayloadKind (spec §6.2).
func TestWrongPayloadKind(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FileTypeBinary, WithPayloadCount(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLayout([]LayoutRecord{{Type: LayoutFileTypeFifo, Target: "run/fifo"}}, CompressionNone); err != nil {
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
	if _, err := p.Meta(); err == nil {
		t.Fatal("Meta() on a Layout payload succeeded, want WrongPayloadKind")
	} else if se, ok := err.(*Error); !ok || se.Kind != WrongPayloadKind {
		t.Fatalf("Meta() on a Layout payload = %v, want WrongPayloadKind", err)
	}
}
