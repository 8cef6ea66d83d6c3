package stone

import (
	"github.com/aerynos/stone/internal/checksum"
	"github.com/aerynos/stone/internal/wire"
)

// PayloadHeader is the fixed-width header written immediately before each
// payload body (spec §3).
type PayloadHeader struct {
	StoredSize  uint64
	PlainSize   uint64
	Checksum    [checksum.Size64]byte
	NumRecords  uint64
	Version     uint16
	Kind        PayloadKind
	Compression Compression
}

func readPayloadHeader(r *wire.Reader) (PayloadHeader, error) {
	storedSize, err := r.ReadUint64()
	if err != nil {
		return PayloadHeader{}, err
	}
	return readPayloadHeaderAfterStoredSize(r, storedSize)
}

// readPayloadHeaderAfterStoredSize reads the remainder of a payload header
// given that stored_size has already been read. Callers that need to treat
// a clean EOF on the stored_size field specially (the archive-ending
// boundary, spec §4.4) read that field themselves first.
func readPayloadHeaderAfterStoredSize(r *wire.Reader, storedSize uint64) (PayloadHeader, error) {
	h := PayloadHeader{StoredSize: storedSize}
	var err error
	if h.PlainSize, err = r.ReadUint64(); err != nil {
		return h, err
	}
	sum, err := r.ReadBytes(checksum.Size64)
	if err != nil {
		return h, err
	}
	copy(h.Checksum[:], sum)
	if h.NumRecords, err = r.ReadUint64(); err != nil {
		return h, err
	}
	if h.Version, err = r.ReadUint16(); err != nil {
		return h, err
	}
	rawKind, err := r.ReadUint8()
	if err != nil {
		return h, err
	}
	h.Kind = payloadKindFromWire(rawKind)
	rawCompression, err := r.ReadUint8()
	if err != nil {
		return h, err
	}
	h.Compression = compressionFromWire(rawCompression)
	return h, nil
}

func writePayloadHeader(w *wire.Writer, h PayloadHeader) error {
	if err := w.WriteUint64(h.StoredSize); err != nil {
		return err
	}
	if err := w.WriteUint64(h.PlainSize); err != nil {
		return err
	}
	if err := w.WriteBytes(h.Checksum[:]); err != nil {
		return err
	}
	if err := w.WriteUint64(h.NumRecords); err != nil {
		return err
	}
	if err := w.WriteUint16(h.Version); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(h.Kind)); err != nil {
		return err
	}
	return w.WriteUint8(uint8(h.Compression))
}

// payloadHeaderSize is the fixed on-disk width of a PayloadHeader:
// stored_size(8) + plain_size(8) + checksum(8) + num_records(8) +
// version(2) + kind(1) + compression(1).
const payloadHeaderSize = 8 + 8 + checksum.Size64 + 8 + 2 + 1 + 1
