package stone

import "github.com/aerynos/stone/internal/wire"

// IndexRecord locates one content blob inside the decompressed Content
// payload (spec §3). Invariant: Start <= End.
type IndexRecord struct {
	Start  uint64
	End    uint64
	Digest [16]byte
}

func readIndexRecord(r *wire.Reader) (IndexRecord, error) {
	var rec IndexRecord
	var err error
	if rec.Start, err = r.ReadUint64(); err != nil {
		return rec, err
	}
	if rec.End, err = r.ReadUint64(); err != nil {
		return rec, err
	}
	digest, err := r.ReadBytes(16)
	if err != nil {
		return rec, err
	}
	copy(rec.Digest[:], digest)
	return rec, nil
}

func writeIndexRecord(w *wire.Writer, rec IndexRecord) error {
	if err := w.WriteUint64(rec.Start); err != nil {
		return err
	}
	if err := w.WriteUint64(rec.End); err != nil {
		return err
	}
	return w.WriteBytes(rec.Digest[:])
}

// IndexReader iterates the records of an Index payload.
type IndexReader struct {
	p *Payload
}

// Next returns the next record, or EndOfRecords once num_records records
// have been produced.
func (ir *IndexReader) Next() (IndexRecord, error) {
	if err := ir.p.beginRecord(); err != nil {
		return IndexRecord{}, err
	}
	r := wire.NewReader(ir.p.plain)
	rec, err := readIndexRecord(r)
	if err != nil {
		return IndexRecord{}, ir.p.fail(translateReadErr(err))
	}
	return rec, nil
}
