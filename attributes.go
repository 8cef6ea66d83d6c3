package stone

import "github.com/aerynos/stone/internal/wire"

// AttributeRecord is an opaque key/value pair (spec §3).
type AttributeRecord struct {
	Key   []byte
	Value []byte
}

func readAttributeRecord(r *wire.Reader) (AttributeRecord, error) {
	var rec AttributeRecord
	var err error
	if rec.Key, err = r.ReadString64(); err != nil {
		return rec, err
	}
	if rec.Value, err = r.ReadString64(); err != nil {
		return rec, err
	}
	return rec, nil
}

func writeAttributeRecord(w *wire.Writer, rec AttributeRecord) error {
	if err := w.WriteString64(rec.Key); err != nil {
		return err
	}
	return w.WriteString64(rec.Value)
}

// AttributesReader iterates the records of an Attributes payload.
type AttributesReader struct {
	p *Payload
}

// Next returns the next record, or EndOfRecords once num_records records
// have been produced.
func (ar *AttributesReader) Next() (AttributeRecord, error) {
	if err := ar.p.beginRecord(); err != nil {
		return AttributeRecord{}, err
	}
	r := wire.NewReader(ar.p.plain)
	rec, err := readAttributeRecord(r)
	if err != nil {
		return AttributeRecord{}, ar.p.fail(translateReadErr(err))
	}
	return rec, nil
}
