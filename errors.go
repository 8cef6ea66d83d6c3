package stone

import (
	"fmt"
	"io"

	"golang.org/x/xerrors"
)

// ErrorKind identifies the class of a stone engine error. Sentinel values
// for end-of-stream conditions (NoMorePayloads, EndOfRecords) are not error
// kinds: they are returned as plain values, never wrapped in an *Error.
type ErrorKind int

const (
	// NotAStone means the magic number at the start of the stream did not
	// match.
	NotAStone ErrorKind = iota + 1
	// UnsupportedVersion means the format-version field named a version this
	// build does not implement.
	UnsupportedVersion
	// UnexpectedEOF means the underlying stream ended before a framed
	// quantity (header, record, or payload body) was fully read.
	UnexpectedEOF
	// IOError wraps an error returned by the underlying byte source.
	IOError
	// CompressionError means the configured decompressor or compressor
	// failed.
	CompressionError
	// ChecksumMismatch means a payload's stored bytes did not hash to the
	// checksum recorded in its header.
	ChecksumMismatch
	// WrongPayloadKind means a kind-specific record reader was invoked
	// against a payload of a different kind.
	WrongPayloadKind
	// ReaderBusy means next_payload was called while a content extractor
	// handle still exclusively borrows the reader.
	ReaderBusy
	// InvalidArgument means a caller-supplied argument (buffer, length,
	// handle) failed a basic validity check.
	InvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case NotAStone:
		return "NotAStone"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case UnexpectedEOF:
		return "UnexpectedEof"
	case IOError:
		return "Io"
	case CompressionError:
		return "CompressionError"
	case ChecksumMismatch:
		return "ChecksumMismatch"
	case WrongPayloadKind:
		return "WrongPayloadKind"
	case ReaderBusy:
		return "ReaderBusy"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is the tagged-sum error type returned by every fallible stone
// operation. It wraps the underlying cause (if any) without swallowing it.
type Error struct {
	Kind    ErrorKind
	Version uint32 // set when Kind == UnsupportedVersion
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnsupportedVersion:
		return fmt.Sprintf("stone: unsupported format version %d", e.Version)
	default:
		if e.cause != nil {
			return fmt.Sprintf("stone: %s: %v", e.Kind, e.cause)
		}
		return fmt.Sprintf("stone: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target names the same error kind, so callers can use
// errors.Is(err, stone.ErrChecksumMismatch) without caring about the wrapped
// cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.cause == nil && other.Kind == e.Kind
}

func newErr(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func wrapIO(cause error) *Error {
	return newErr(IOError, cause)
}

func unsupportedVersion(v uint32) *Error {
	return &Error{Kind: UnsupportedVersion, Version: v}
}

// translateReadErr maps a raw io error from the wire codec onto the
// engine's error kinds: a clean or truncated EOF becomes UnexpectedEOF,
// anything else is wrapped as IOError.
func translateReadErr(err error) *Error {
	if err == nil {
		return nil
	}
	if xerrors.Is(err, io.EOF) || xerrors.Is(err, io.ErrUnexpectedEOF) {
		return newErr(UnexpectedEOF, nil)
	}
	return wrapIO(err)
}

// Sentinel comparison targets for errors.Is. These carry no cause, matching
// the contract of (*Error).Is.
var (
	ErrNotAStone        = &Error{Kind: NotAStone}
	ErrUnexpectedEOF    = &Error{Kind: UnexpectedEOF}
	ErrIO               = &Error{Kind: IOError}
	ErrCompression      = &Error{Kind: CompressionError}
	ErrChecksumMismatch = &Error{Kind: ChecksumMismatch}
	ErrWrongPayloadKind = &Error{Kind: WrongPayloadKind}
	ErrReaderBusy       = &Error{Kind: ReaderBusy}
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
)

// NoMorePayloads is returned by (*Reader).NextPayload instead of a payload
// once the archive's payloads have been exhausted. It is a sentinel, not an
// error: callers loop on it the same way they loop on io.EOF.
var NoMorePayloads = xerrors.New("stone: no more payloads")

// EndOfRecords is returned by a record iterator's Next method instead of a
// record once num_records records have been produced for that payload. It is
// a sentinel, not an error.
var EndOfRecords = xerrors.New("stone: end of records")
