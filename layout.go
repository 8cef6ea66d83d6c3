package stone

import "github.com/aerynos/stone/internal/wire"

// LayoutRecord describes one filesystem entry (spec §3, §4.5).
type LayoutRecord struct {
	UID  uint32
	GID  uint32
	Mode uint32
	Tag  uint32
	Type LayoutFileType

	// Hash is populated for Type == LayoutFileTypeRegular: the 128-bit
	// content hash of the file's bytes inside the Content payload.
	Hash [16]byte
	// Source is populated for Type == LayoutFileTypeSymlink: the symlink's
	// target path as written on disk.
	Source string
	// Target is the entry's name: for Regular, the name within its
	// directory; for Symlink, the link path itself; for every other type,
	// the entry's name.
	Target string
}

// layoutReservedSize is the width of the zeroed tail of the fixed-size
// layout record prefix. Its exact value is an implementation choice (spec
// §9 notes that reserved-byte policy must ultimately match a known-good
// archive); see DESIGN.md.
const layoutReservedSize = 12

func readLayoutRecord(r *wire.Reader) (LayoutRecord, error) {
	var rec LayoutRecord
	var err error
	if rec.UID, err = r.ReadUint32(); err != nil {
		return rec, err
	}
	if rec.GID, err = r.ReadUint32(); err != nil {
		return rec, err
	}
	if rec.Mode, err = r.ReadUint32(); err != nil {
		return rec, err
	}
	if rec.Tag, err = r.ReadUint32(); err != nil {
		return rec, err
	}
	rawType, err := r.ReadUint32()
	if err != nil {
		return rec, err
	}
	rec.Type = layoutFileTypeFromWire(rawType)
	sourceLen, err := r.ReadUint16()
	if err != nil {
		return rec, err
	}
	targetLen, err := r.ReadUint16()
	if err != nil {
		return rec, err
	}
	if _, err := r.ReadBytes(layoutReservedSize); err != nil {
		return rec, err
	}

	switch rec.Type {
	case LayoutFileTypeRegular:
		hash, err := r.ReadBytes(16)
		if err != nil {
			return rec, err
		}
		copy(rec.Hash[:], hash)
		target, err := r.ReadString(int(targetLen))
		if err != nil {
			return rec, err
		}
		rec.Target = target
	case LayoutFileTypeSymlink:
		source, err := r.ReadString(int(sourceLen))
		if err != nil {
			return rec, err
		}
		target, err := r.ReadString(int(targetLen))
		if err != nil {
			return rec, err
		}
		rec.Source, rec.Target = source, target
	default:
		// Directory, device, fifo, socket, and any forward-unknown file
		// type all carry a single name of target-length (spec §4.5); the
		// length prefix was already consumed above, so unknown variants
		// never desynchronize the stream.
		target, err := r.ReadString(int(targetLen))
		if err != nil {
			return rec, err
		}
		rec.Target = target
	}
	return rec, nil
}

func writeLayoutRecord(w *wire.Writer, rec LayoutRecord) error {
	if err := w.WriteUint32(rec.UID); err != nil {
		return err
	}
	if err := w.WriteUint32(rec.GID); err != nil {
		return err
	}
	if err := w.WriteUint32(rec.Mode); err != nil {
		return err
	}
	if err := w.WriteUint32(rec.Tag); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(rec.Type)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(rec.Source))); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(rec.Target))); err != nil {
		return err
	}
	if err := w.WriteBytes(make([]byte, layoutReservedSize)); err != nil {
		return err
	}
	switch rec.Type {
	case LayoutFileTypeRegular:
		if err := w.WriteBytes(rec.Hash[:]); err != nil {
			return err
		}
		return w.WriteBytes([]byte(rec.Target))
	case LayoutFileTypeSymlink:
		if err := w.WriteBytes([]byte(rec.Source)); err != nil {
			return err
		}
		return w.WriteBytes([]byte(rec.Target))
	default:
		return w.WriteBytes([]byte(rec.Target))
	}
}

// LayoutReader iterates the records of a Layout payload.
type LayoutReader struct {
	p *Payload
}

// Next returns the next record, or EndOfRecords once num_records records
// have been produced.
func (lr *LayoutReader) Next() (LayoutRecord, error) {
	if err := lr.p.beginRecord(); err != nil {
		return LayoutRecord{}, err
	}
	r := wire.NewReader(lr.p.plain)
	rec, err := readLayoutRecord(r)
	if err != nil {
		return LayoutRecord{}, lr.p.fail(translateReadErr(err))
	}
	return rec, nil
}
