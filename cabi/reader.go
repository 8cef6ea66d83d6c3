package main

/*
#include <stdint.h>
*/
import "C"

import (
	"errors"
	"io"
	"os"
	"runtime/cgo"
	"unsafe"

	stone "github.com/aerynos/stone"
)

// readerHandle is the Go-side object behind a stone_reader_handle.
type readerHandle struct {
	r *stone.Reader
	// src keeps a reference to whatever backs r (an *os.File we opened
	// ourselves, or a cSource wrapping a caller vtable) alive for the
	// reader's lifetime; stone.Reader itself only holds an io.Reader.
	src any
}

// payloadHandle is the Go-side object behind a stone_payload_handle. It
// additionally holds whichever kind-specific record reader has been
// requested, and the byte buffers backing the last record's borrowed
// strings, which must stay alive until the next record read or destroy.
type payloadHandle struct {
	p           *stone.Payload
	meta        *stone.MetaReader
	layout      *stone.LayoutReader
	index       *stone.IndexReader
	attrs       *stone.AttributesReader
	lastStrings [][]byte
}

// contentHandle is the Go-side object behind a
// stone_content_reader_handle.
type contentHandle struct {
	c *stone.ContentReader
}

// cSource adapts a caller-supplied read/seek vtable (spec §6.2's
// stone_read) to io.Reader and io.Seeker. Convention, since the spec
// leaves the callback's return contract unspecified: a negative return
// is an I/O error, zero means clean EOF (Read only), and a non-negative
// value is the count of bytes read or seeked-to offset.
type cSource struct {
	vt C.stone_source_vtable
}

func (s *cSource) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := C.stone_vtable_call_read(s.vt.read, s.vt.ctx, (*C.uint8_t)(unsafe.Pointer(&p[0])), C.size_t(len(p)))
	if n < 0 {
		return 0, errors.New("stone: source read callback failed")
	}
	if n == 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

func (s *cSource) Seek(offset int64, whence int) (int64, error) {
	n := C.stone_vtable_call_seek(s.vt.seek, s.vt.ctx, C.int64_t(offset), C.int(whence))
	if n < 0 {
		return 0, errors.New("stone: source seek callback failed")
	}
	return int64(n), nil
}

//export stone_read
func stone_read(vtable C.stone_source_vtable, outReader *C.stone_reader_handle, outVersion *C.uint32_t) C.int {
	src := &cSource{vt: vtable}
	r, err := stone.Open(src)
	if err != nil {
		return errCode(err)
	}
	h := cgo.NewHandle(&readerHandle{r: r, src: src})
	*outReader = C.stone_reader_handle(h)
	*outVersion = C.uint32_t(r.Version())
	return codeOK
}

//export stone_read_file
func stone_read_file(fd C.int, outReader *C.stone_reader_handle, outVersion *C.uint32_t) C.int {
	f := os.NewFile(uintptr(fd), "stone-archive")
	if f == nil {
		return codeInvalidArgument
	}
	r, err := stone.OpenFile(f)
	if err != nil {
		return errCode(err)
	}
	h := cgo.NewHandle(&readerHandle{r: r, src: f})
	*outReader = C.stone_reader_handle(h)
	*outVersion = C.uint32_t(r.Version())
	return codeOK
}

//export stone_read_buf
func stone_read_buf(buf *C.uint8_t, length C.size_t, outReader *C.stone_reader_handle, outVersion *C.uint32_t) C.int {
	if buf == nil && length != 0 {
		return codeInvalidArgument
	}
	data := C.GoBytes(unsafe.Pointer(buf), C.int(length))
	r, err := stone.OpenBuffer(data)
	if err != nil {
		return errCode(err)
	}
	h := cgo.NewHandle(&readerHandle{r: r, src: data})
	*outReader = C.stone_reader_handle(h)
	*outVersion = C.uint32_t(r.Version())
	return codeOK
}

func lookupReader(handle C.stone_reader_handle) (*readerHandle, C.int) {
	rh, ok := cgo.Handle(handle).Value().(*readerHandle)
	if !ok {
		return nil, codeInvalidArgument
	}
	return rh, codeOK
}

//export stone_reader_header_v1
func stone_reader_header_v1(handle C.stone_reader_handle, outHeader *C.stone_file_header_v1) C.int {
	rh, code := lookupReader(handle)
	if code != codeOK {
		return code
	}
	h := rh.r.Header()
	outHeader.num_payloads = C.uint16_t(h.NumPayloads)
	outHeader.file_type = C.uint8_t(h.FileType)
	return codeOK
}

//export stone_reader_next_payload
func stone_reader_next_payload(handle C.stone_reader_handle, outPayload *C.stone_payload_handle) C.int {
	rh, code := lookupReader(handle)
	if code != codeOK {
		return code
	}
	p, err := rh.r.NextPayload()
	if err != nil {
		return errCode(err)
	}
	ph := cgo.NewHandle(&payloadHandle{p: p})
	*outPayload = C.stone_payload_handle(ph)
	return codeOK
}

//export stone_reader_destroy
func stone_reader_destroy(handle C.stone_reader_handle) {
	cgo.Handle(handle).Delete()
}

//export stone_payload_destroy
func stone_payload_destroy(handle C.stone_payload_handle) {
	cgo.Handle(handle).Delete()
}

func lookupPayload(handle C.stone_payload_handle) (*payloadHandle, C.int) {
	ph, ok := cgo.Handle(handle).Value().(*payloadHandle)
	if !ok {
		return nil, codeInvalidArgument
	}
	return ph, codeOK
}

//export stone_payload_header
func stone_payload_header(handle C.stone_payload_handle, outHeader *C.stone_payload_header) C.int {
	ph, code := lookupPayload(handle)
	if code != codeOK {
		return code
	}
	h := ph.p.Header()
	outHeader.stored_size = C.uint64_t(h.StoredSize)
	outHeader.plain_size = C.uint64_t(h.PlainSize)
	for i, b := range h.Checksum {
		outHeader.checksum[i] = C.uint8_t(b)
	}
	outHeader.num_records = C.uint64_t(h.NumRecords)
	outHeader.version = C.uint16_t(h.Version)
	outHeader.kind = C.uint8_t(h.Kind)
	outHeader.compression = C.uint8_t(h.Compression)
	return codeOK
}

//export stone_reader_unpack_content_payload
func stone_reader_unpack_content_payload(readerH C.stone_reader_handle, payloadH C.stone_payload_handle, fd C.int) C.int {
	_, code := lookupReader(readerH)
	if code != codeOK {
		return code
	}
	ph, code := lookupPayload(payloadH)
	if code != codeOK {
		return code
	}
	cr, err := ph.p.Content()
	if err != nil {
		return errCode(err)
	}
	defer cr.Close()
	sink := os.NewFile(uintptr(fd), "stone-content-sink")
	if sink == nil {
		return codeInvalidArgument
	}
	if _, err := cr.WriteTo(sink); err != nil {
		return errCode(err)
	}
	return codeOK
}

//export stone_reader_read_content_payload
func stone_reader_read_content_payload(readerH C.stone_reader_handle, payloadH C.stone_payload_handle, outContent *C.stone_content_reader_handle) C.int {
	_, code := lookupReader(readerH)
	if code != codeOK {
		return code
	}
	ph, code := lookupPayload(payloadH)
	if code != codeOK {
		return code
	}
	cr, err := ph.p.Content()
	if err != nil {
		return errCode(err)
	}
	ch := cgo.NewHandle(&contentHandle{c: cr})
	*outContent = C.stone_content_reader_handle(ch)
	return codeOK
}
