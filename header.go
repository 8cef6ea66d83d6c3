package stone

import (
	"io"

	"github.com/aerynos/stone/internal/wire"
)

// Version identifies the archive's format version, read immediately after
// the magic number.
type Version uint32

// V1 is the only format version this package implements.
const V1 Version = 1

// FileHeader is the version-specific portion of the 32-byte archive
// envelope for V1 (spec §3): it occupies the bytes following the magic
// number and version field, padded with reserved zero bytes out to
// HeaderSize.
type FileHeader struct {
	NumPayloads uint16
	FileType    FileType
}

// headerPrefixSize is magic(4) + version(4); the remaining HeaderSize-8
// bytes hold the version-specific header plus reserved padding.
const headerPrefixSize = 8

func readFileHeader(r *wire.Reader) (FileHeader, error) {
	numPayloads, err := r.ReadUint16()
	if err != nil {
		return FileHeader{}, err
	}
	rawType, err := r.ReadUint8()
	if err != nil {
		return FileHeader{}, err
	}
	// Remaining reserved bytes of the 32-byte envelope: tolerated whether
	// zero or not (spec §4.4 step 3, §9).
	reserved := HeaderSize - headerPrefixSize - 2 - 1
	if _, err := r.ReadBytes(reserved); err != nil {
		return FileHeader{}, err
	}
	return FileHeader{
		NumPayloads: numPayloads,
		FileType:    fileTypeFromWire(rawType),
	}, nil
}

func writeFileHeader(w *wire.Writer, h FileHeader) error {
	if err := w.WriteUint16(h.NumPayloads); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(h.FileType)); err != nil {
		return err
	}
	reserved := HeaderSize - headerPrefixSize - 2 - 1
	return w.WriteBytes(make([]byte, reserved))
}

// readEnvelope reads the magic number, format version, and version-specific
// header, returning the version and decoded header. It is the first thing
// Open does.
func readEnvelope(r io.Reader) (Version, FileHeader, error) {
	wr := wire.NewReader(r)
	gotMagic, err := wr.ReadUint32()
	if err != nil {
		return 0, FileHeader{}, translateReadErr(err)
	}
	if gotMagic != magic {
		return 0, FileHeader{}, newErr(NotAStone, nil)
	}
	rawVersion, err := wr.ReadUint32()
	if err != nil {
		return 0, FileHeader{}, translateReadErr(err)
	}
	version := Version(rawVersion)
	if version != V1 {
		return 0, FileHeader{}, unsupportedVersion(rawVersion)
	}
	hdr, err := readFileHeader(wr)
	if err != nil {
		return 0, FileHeader{}, translateReadErr(err)
	}
	return version, hdr, nil
}

// writeEnvelope writes the magic number, format version, and v1 file
// header.
func writeEnvelope(w io.Writer, h FileHeader) error {
	ww := wire.NewWriter(w)
	if err := ww.WriteUint32(magic); err != nil {
		return err
	}
	if err := ww.WriteUint32(uint32(V1)); err != nil {
		return err
	}
	return writeFileHeader(ww, h)
}
