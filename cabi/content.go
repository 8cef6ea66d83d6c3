package main

/*
#include <stdint.h>
*/
import "C"

import (
	"io"
	"runtime/cgo"
	"unsafe"
)

func lookupContent(handle C.stone_content_reader_handle) (*contentHandle, C.int) {
	ch, ok := cgo.Handle(handle).Value().(*contentHandle)
	if !ok {
		return nil, codeInvalidArgument
	}
	return ch, codeOK
}

//export stone_payload_content_reader_buf_hint
func stone_payload_content_reader_buf_hint(handle C.stone_content_reader_handle) C.size_t {
	ch, code := lookupContent(handle)
	if code != codeOK {
		return 0
	}
	return C.size_t(ch.c.BufHint())
}

// stone_payload_content_reader_read decodes up to len bytes into buf,
// reporting the number of bytes written via outN. It returns
// codeNoMorePayloads (reused here as the generic end-of-data signal) once
// the content payload is exhausted, matching the reader's io.EOF contract.
//
//export stone_payload_content_reader_read
func stone_payload_content_reader_read(handle C.stone_content_reader_handle, buf *C.uint8_t, length C.size_t, outN *C.size_t) C.int {
	ch, code := lookupContent(handle)
	if code != codeOK {
		return code
	}
	if length == 0 {
		*outN = 0
		return codeOK
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(length))
	n, err := ch.c.Read(dst)
	*outN = C.size_t(n)
	if err != nil {
		if err == io.EOF {
			return codeNoMorePayloads
		}
		return errCode(err)
	}
	return codeOK
}

//export stone_payload_content_reader_is_checksum_valid
func stone_payload_content_reader_is_checksum_valid(handle C.stone_content_reader_handle) C.int {
	ch, code := lookupContent(handle)
	if code != codeOK {
		return 0
	}
	if ch.c.IsChecksumValid() {
		return 1
	}
	return 0
}

//export stone_payload_content_reader_destroy
func stone_payload_content_reader_destroy(handle C.stone_content_reader_handle) {
	ch, ok := cgo.Handle(handle).Value().(*contentHandle)
	if ok {
		ch.c.Close()
	}
	cgo.Handle(handle).Delete()
}
