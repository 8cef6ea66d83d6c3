// Package stone reads and writes the stone binary container format used by
// the AerynOS package toolchain (boulder, the package builder, and moss, the
// package manager).
//
// A stone archive bundles package metadata, a filesystem layout description,
// content-addressed file blobs, an index into those blobs, and arbitrary
// key/value attributes into a single streamable, integrity-checked file. See
// Reader for decoding an existing archive and Writer for producing one.
//
// The package is synchronous: a Reader and the handles it hands out are not
// safe for concurrent use, matching the on-disk format's single streaming
// pass (no seeking is required to decode an archive front to back).
package stone

// HeaderSize is the fixed size, in bytes, of the archive envelope: the magic
// number, format version, and version-specific file header. It is constant
// across all format versions.
const HeaderSize = 32

// magic is the big-endian 32-bit literal that opens every stone archive: the
// four bytes "\x00mos". DESIGN.md records how this value was chosen.
const magic uint32 = 0x006d6f73 // "\x00mos"
