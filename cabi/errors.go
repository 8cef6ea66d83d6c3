package main

/*
#include <stdint.h>
*/
import "C"

import (
	"errors"

	stone "github.com/aerynos/stone"
)

// Stable C ABI error codes (spec §6.2). These are independent of the Go
// package's internal ErrorKind ordering: the C surface is a promise to
// external callers and must not shift if the Go enum is reordered.
const (
	codeOK                 C.int = 0
	codeNotAStone          C.int = 1
	codeUnsupportedVersion C.int = 2
	codeUnexpectedEOF      C.int = 3
	codeIO                 C.int = 4
	codeCompressionError   C.int = 5
	codeChecksumMismatch   C.int = 6
	codeWrongPayloadKind   C.int = 7
	codeEndOfRecords       C.int = 8
	codeNoMorePayloads     C.int = 9
	codeReaderBusy         C.int = 10
	codeInvalidArgument    C.int = 11
)

// errCode translates a Go error returned by the engine into a stable C ABI
// code. nil maps to 0 (success). The two end-of-stream sentinels are not
// *stone.Error values, so they are checked by identity first.
func errCode(err error) C.int {
	if err == nil {
		return codeOK
	}
	if errors.Is(err, stone.NoMorePayloads) {
		return codeNoMorePayloads
	}
	if errors.Is(err, stone.EndOfRecords) {
		return codeEndOfRecords
	}
	var se *stone.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case stone.NotAStone:
			return codeNotAStone
		case stone.UnsupportedVersion:
			return codeUnsupportedVersion
		case stone.UnexpectedEOF:
			return codeUnexpectedEOF
		case stone.IOError:
			return codeIO
		case stone.CompressionError:
			return codeCompressionError
		case stone.ChecksumMismatch:
			return codeChecksumMismatch
		case stone.WrongPayloadKind:
			return codeWrongPayloadKind
		case stone.ReaderBusy:
			return codeReaderBusy
		case stone.InvalidArgument:
			return codeInvalidArgument
		}
	}
	return codeIO
}
