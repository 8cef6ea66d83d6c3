// Command cabi builds the stable C ABI facade over the stone engine (spec
// §6.2), as a cgo archive (-buildmode=c-archive) or shared library
// (-buildmode=c-shared). It exposes opaque handles (stone_reader_handle,
// stone_payload_handle, stone_content_reader_handle) as runtime/cgo.Handle
// values boxed inside uintptr-typed C handles, and every operation with an
// int result returns 0 on success and a stable, nonzero error code on
// failure (the destroy, buf_hint and is_checksum_valid calls return no code).
//
// Grounding note: no file in the retrieved example pack exports Go
// functions to C callers via //export (the one cgo usage found,
// holocm-holo-build's dump-package/main.go, only calls from Go into C).
// This package's shape is standard idiomatic cgo for a boundary library
// (opaque handles via runtime/cgo.Handle, fixed-layout C structs for
// value types, pointer+length borrowed strings) rather than a pattern
// copied from the pack; see DESIGN.md.
package main

/*
#include <stddef.h>
#include <stdint.h>

typedef uintptr_t stone_reader_handle;
typedef uintptr_t stone_payload_handle;
typedef uintptr_t stone_content_reader_handle;

typedef struct {
	uint16_t num_payloads;
	uint8_t  file_type;
} stone_file_header_v1;

typedef struct {
	uint64_t stored_size;
	uint64_t plain_size;
	uint8_t  checksum[8];
	uint64_t num_records;
	uint16_t version;
	uint8_t  kind;
	uint8_t  compression;
} stone_payload_header;

typedef struct {
	uint32_t uid;
	uint32_t gid;
	uint32_t mode;
	uint32_t tag;
	uint8_t  file_type;
	uint8_t  hash[16];
	const char *source_ptr;
	size_t      source_len;
	const char *target_ptr;
	size_t      target_len;
} stone_layout_record;

typedef struct {
	uint64_t start;
	uint64_t end;
	uint8_t  digest[16];
} stone_index_record;

typedef struct {
	const char *key_ptr;
	size_t      key_len;
	const char *value_ptr;
	size_t      value_len;
} stone_attribute_record;

typedef struct {
	uint16_t tag;
	uint8_t  primitive_type;
	int64_t  int_value;
	uint64_t uint_value;
	const char *string_ptr;
	size_t      string_len;
	uint8_t     dependency_kind;
} stone_meta_record;

typedef int64_t (*stone_read_fn)(void *ctx, uint8_t *buf, size_t len);
typedef int64_t (*stone_seek_fn)(void *ctx, int64_t offset, int whence);

typedef struct {
	void *ctx;
	stone_read_fn read;
	stone_seek_fn seek;
} stone_source_vtable;

static int64_t stone_vtable_call_read(stone_read_fn fn, void *ctx, uint8_t *buf, size_t len) {
	return fn(ctx, buf, len);
}

static int64_t stone_vtable_call_seek(stone_seek_fn fn, void *ctx, int64_t offset, int whence) {
	return fn(ctx, offset, whence);
}
*/
import "C"

// main is required because this package is built with -buildmode=c-archive
// (or c-shared); it is never executed.
func main() {}
