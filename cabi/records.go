package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	stone "github.com/aerynos/stone"
)

// stash appends b to ph.lastStrings, keeping it alive, and returns a
// pointer+length into it. Borrowed strings are only guaranteed valid until
// the next record read or payload destroy (spec §6.2), so each record
// reader resets ph.lastStrings before stashing the new record's strings.
func stash(ph *payloadHandle, b []byte) (*C.char, C.size_t) {
	if len(b) == 0 {
		return nil, 0
	}
	ph.lastStrings = append(ph.lastStrings, b)
	return (*C.char)(unsafe.Pointer(&b[0])), C.size_t(len(b))
}

//export stone_payload_next_layout_record
func stone_payload_next_layout_record(handle C.stone_payload_handle, out *C.stone_layout_record) C.int {
	ph, code := lookupPayload(handle)
	if code != codeOK {
		return code
	}
	if ph.layout == nil {
		lr, err := ph.p.Layout()
		if err != nil {
			return errCode(err)
		}
		ph.layout = lr
	}
	rec, err := ph.layout.Next()
	if err != nil {
		return errCode(err)
	}
	ph.lastStrings = ph.lastStrings[:0]

	out.uid = C.uint32_t(rec.UID)
	out.gid = C.uint32_t(rec.GID)
	out.mode = C.uint32_t(rec.Mode)
	out.tag = C.uint32_t(rec.Tag)
	out.file_type = C.uint8_t(rec.Type)
	for i, b := range rec.Hash {
		out.hash[i] = C.uint8_t(b)
	}
	out.source_ptr, out.source_len = stash(ph, []byte(rec.Source))
	out.target_ptr, out.target_len = stash(ph, []byte(rec.Target))
	return codeOK
}

//export stone_payload_next_meta_record
func stone_payload_next_meta_record(handle C.stone_payload_handle, out *C.stone_meta_record) C.int {
	ph, code := lookupPayload(handle)
	if code != codeOK {
		return code
	}
	if ph.meta == nil {
		mr, err := ph.p.Meta()
		if err != nil {
			return errCode(err)
		}
		ph.meta = mr
	}
	rec, err := ph.meta.Next()
	if err != nil {
		return errCode(err)
	}
	ph.lastStrings = ph.lastStrings[:0]

	out.tag = C.uint16_t(rec.Tag)
	out.primitive_type = C.uint8_t(rec.Value.Type)
	out.int_value = C.int64_t(rec.Value.Int)
	out.uint_value = C.uint64_t(rec.Value.Uint)
	out.dependency_kind = 0
	switch {
	case rec.Value.Dependency != nil:
		out.dependency_kind = C.uint8_t(rec.Value.Dependency.Kind)
		out.string_ptr, out.string_len = stash(ph, []byte(rec.Value.Dependency.Name))
	default:
		out.string_ptr, out.string_len = stash(ph, []byte(rec.Value.String))
	}
	return codeOK
}

//export stone_payload_next_index_record
func stone_payload_next_index_record(handle C.stone_payload_handle, out *C.stone_index_record) C.int {
	ph, code := lookupPayload(handle)
	if code != codeOK {
		return code
	}
	if ph.index == nil {
		ir, err := ph.p.Index()
		if err != nil {
			return errCode(err)
		}
		ph.index = ir
	}
	rec, err := ph.index.Next()
	if err != nil {
		return errCode(err)
	}
	out.start = C.uint64_t(rec.Start)
	out.end = C.uint64_t(rec.End)
	for i, b := range rec.Digest {
		out.digest[i] = C.uint8_t(b)
	}
	return codeOK
}

//export stone_payload_next_attribute_record
func stone_payload_next_attribute_record(handle C.stone_payload_handle, out *C.stone_attribute_record) C.int {
	ph, code := lookupPayload(handle)
	if code != codeOK {
		return code
	}
	if ph.attrs == nil {
		ar, err := ph.p.Attributes()
		if err != nil {
			return errCode(err)
		}
		ph.attrs = ar
	}
	rec, err := ph.attrs.Next()
	if err != nil {
		return errCode(err)
	}
	ph.lastStrings = ph.lastStrings[:0]

	out.key_ptr, out.key_len = stash(ph, rec.Key)
	out.value_ptr, out.value_len = stash(ph, rec.Value)
	return codeOK
}

func copyName(name string, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	*outLen = C.size_t(len(name))
	n := len(name)
	if C.size_t(n) > bufLen {
		n = int(bufLen)
	}
	if n > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), n)
		copy(dst, name[:n])
	}
	return codeOK
}

//export stone_format_file_type
func stone_format_file_type(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.FileType(v).String(), buf, bufLen, outLen)
}

//export stone_format_payload_kind
func stone_format_payload_kind(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.PayloadKind(v).String(), buf, bufLen, outLen)
}

//export stone_format_compression
func stone_format_compression(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.Compression(v).String(), buf, bufLen, outLen)
}

//export stone_format_layout_file_type
func stone_format_layout_file_type(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.LayoutFileType(v).String(), buf, bufLen, outLen)
}

//export stone_format_meta_tag
func stone_format_meta_tag(v C.uint16_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.MetaTag(v).String(), buf, bufLen, outLen)
}

//export stone_format_meta_primitive_type
func stone_format_meta_primitive_type(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.MetaPrimitiveType(v).String(), buf, bufLen, outLen)
}

//export stone_format_meta_dependency_kind
func stone_format_meta_dependency_kind(v C.uint8_t, buf *C.char, bufLen C.size_t, outLen *C.size_t) C.int {
	return copyName(stone.MetaDependencyKind(v).String(), buf, bufLen, outLen)
}
