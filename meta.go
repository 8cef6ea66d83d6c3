package stone

import "github.com/aerynos/stone/internal/wire"

// MetaDependencyValue is the value carried by a Dependency or Provider
// Meta record: a sub-kind discriminant plus a name (spec §4.5).
type MetaDependencyValue struct {
	Kind MetaDependencyKind
	Name string
}

// MetaValue is the decoded value of a Meta record. Exactly one field is
// meaningful, selected by Type.
type MetaValue struct {
	Type       MetaPrimitiveType
	Int        int64                // Int8/Int16/Int32/Int64
	Uint       uint64               // Uint8/Uint16/Uint32/Uint64
	String     string               // String
	Dependency *MetaDependencyValue // Dependency, Provider
}

// MetaRecord is one key/value entry in a Meta payload (spec §3).
type MetaRecord struct {
	Tag   MetaTag
	Value MetaValue
}

func readMetaValue(r *wire.Reader) (MetaValue, error) {
	rawType, err := r.ReadUint8()
	if err != nil {
		return MetaValue{}, err
	}
	typ := metaPrimitiveFromWire(rawType)
	v := MetaValue{Type: typ}
	switch typ {
	case MetaPrimitiveInt8:
		x, err := r.ReadInt8()
		v.Int = int64(x)
		return v, err
	case MetaPrimitiveUint8:
		x, err := r.ReadUint8()
		v.Uint = uint64(x)
		return v, err
	case MetaPrimitiveInt16:
		x, err := r.ReadInt16()
		v.Int = int64(x)
		return v, err
	case MetaPrimitiveUint16:
		x, err := r.ReadUint16()
		v.Uint = uint64(x)
		return v, err
	case MetaPrimitiveInt32:
		x, err := r.ReadInt32()
		v.Int = int64(x)
		return v, err
	case MetaPrimitiveUint32:
		x, err := r.ReadUint32()
		v.Uint = uint64(x)
		return v, err
	case MetaPrimitiveInt64:
		x, err := r.ReadInt64()
		v.Int = x
		return v, err
	case MetaPrimitiveUint64:
		x, err := r.ReadUint64()
		v.Uint = x
		return v, err
	case MetaPrimitiveString:
		s, err := r.ReadString32()
		v.String = s
		return v, err
	case MetaPrimitiveDependency, MetaPrimitiveProvider:
		rawKind, err := r.ReadUint8()
		if err != nil {
			return v, err
		}
		name, err := r.ReadString32()
		if err != nil {
			return v, err
		}
		v.Dependency = &MetaDependencyValue{
			Kind: metaDependencyKindFromWire(rawKind),
			Name: name,
		}
		return v, nil
	default:
		// An unrecognized primitive type carries a shape this decoder does
		// not know; there is nothing further to consume for it. Valid
		// archives do not produce this (spec §8.6 only requires unknown
		// tolerance for MetaTag, LayoutFileType, and MetaDependencyKind).
		return v, nil
	}
}

func writeMetaValue(w *wire.Writer, v MetaValue) error {
	if err := w.WriteUint8(uint8(v.Type)); err != nil {
		return err
	}
	switch v.Type {
	case MetaPrimitiveInt8:
		return w.WriteInt8(int8(v.Int))
	case MetaPrimitiveUint8:
		return w.WriteUint8(uint8(v.Uint))
	case MetaPrimitiveInt16:
		return w.WriteInt16(int16(v.Int))
	case MetaPrimitiveUint16:
		return w.WriteUint16(uint16(v.Uint))
	case MetaPrimitiveInt32:
		return w.WriteInt32(int32(v.Int))
	case MetaPrimitiveUint32:
		return w.WriteUint32(uint32(v.Uint))
	case MetaPrimitiveInt64:
		return w.WriteInt64(v.Int)
	case MetaPrimitiveUint64:
		return w.WriteUint64(v.Uint)
	case MetaPrimitiveString:
		return w.WriteString32(v.String)
	case MetaPrimitiveDependency, MetaPrimitiveProvider:
		if err := w.WriteUint8(uint8(v.Dependency.Kind)); err != nil {
			return err
		}
		return w.WriteString32(v.Dependency.Name)
	default:
		return nil
	}
}

// MetaReader iterates the records of a Meta payload.
type MetaReader struct {
	p *Payload
}

// Next returns the next record, or EndOfRecords once num_records records
// have been produced.
func (mr *MetaReader) Next() (MetaRecord, error) {
	if err := mr.p.beginRecord(); err != nil {
		return MetaRecord{}, err
	}
	r := wire.NewReader(mr.p.plain)
	rawTag, err := r.ReadUint16()
	if err != nil {
		return MetaRecord{}, mr.p.fail(translateReadErr(err))
	}
	val, err := readMetaValue(r)
	if err != nil {
		return MetaRecord{}, mr.p.fail(translateReadErr(err))
	}
	return MetaRecord{Tag: metaTagFromWire(rawTag), Value: val}, nil
}
