package stone

// FileType identifies the kind of archive described by the v1 file header.
type FileType uint8

const (
	FileTypeBinary        FileType = 1
	FileTypeDelta         FileType = 2
	FileTypeRepository    FileType = 3
	FileTypeBuildManifest FileType = 4
	// FileTypeUnknown is produced for any discriminant outside the defined
	// set; it is never itself an error (see spec §4.3, §7).
	FileTypeUnknown FileType = 255
)

func fileTypeFromWire(v uint8) FileType {
	switch v {
	case 1, 2, 3, 4:
		return FileType(v)
	default:
		return FileTypeUnknown
	}
}

func (t FileType) String() string {
	switch t {
	case FileTypeBinary:
		return "Binary"
	case FileTypeDelta:
		return "Delta"
	case FileTypeRepository:
		return "Repository"
	case FileTypeBuildManifest:
		return "BuildManifest"
	default:
		return "Unknown"
	}
}

// PayloadKind identifies the kind of a payload, and therefore which typed
// record reader applies to it.
type PayloadKind uint8

const (
	PayloadKindMeta       PayloadKind = 1
	PayloadKindContent    PayloadKind = 2
	PayloadKindLayout     PayloadKind = 3
	PayloadKindIndex      PayloadKind = 4
	PayloadKindAttributes PayloadKind = 5
	PayloadKindUnknown    PayloadKind = 255
)

func payloadKindFromWire(v uint8) PayloadKind {
	switch v {
	case 1, 2, 3, 4, 5:
		return PayloadKind(v)
	default:
		return PayloadKindUnknown
	}
}

func (k PayloadKind) String() string {
	switch k {
	case PayloadKindMeta:
		return "Meta"
	case PayloadKindContent:
		return "Content"
	case PayloadKindLayout:
		return "Layout"
	case PayloadKindIndex:
		return "Index"
	case PayloadKindAttributes:
		return "Attributes"
	default:
		return "Unknown"
	}
}

// Compression identifies how a payload's stored body is encoded on disk.
type Compression uint8

const (
	CompressionNone    Compression = 1
	CompressionZstd    Compression = 2
	CompressionUnknown Compression = 255
)

func compressionFromWire(v uint8) Compression {
	switch v {
	case 1, 2:
		return Compression(v)
	default:
		return CompressionUnknown
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// LayoutFileType identifies the kind of filesystem entry a Layout record
// describes.
type LayoutFileType uint8

const (
	LayoutFileTypeRegular         LayoutFileType = 1
	LayoutFileTypeSymlink         LayoutFileType = 2
	LayoutFileTypeDirectory       LayoutFileType = 3
	LayoutFileTypeCharacterDevice LayoutFileType = 4
	LayoutFileTypeBlockDevice     LayoutFileType = 5
	LayoutFileTypeFifo            LayoutFileType = 6
	LayoutFileTypeSocket          LayoutFileType = 7
	LayoutFileTypeUnknown         LayoutFileType = 255
)

func layoutFileTypeFromWire(v uint32) LayoutFileType {
	switch v {
	case 1, 2, 3, 4, 5, 6, 7:
		return LayoutFileType(v)
	default:
		return LayoutFileTypeUnknown
	}
}

func (t LayoutFileType) String() string {
	switch t {
	case LayoutFileTypeRegular:
		return "Regular"
	case LayoutFileTypeSymlink:
		return "Symlink"
	case LayoutFileTypeDirectory:
		return "Directory"
	case LayoutFileTypeCharacterDevice:
		return "CharacterDevice"
	case LayoutFileTypeBlockDevice:
		return "BlockDevice"
	case LayoutFileTypeFifo:
		return "Fifo"
	case LayoutFileTypeSocket:
		return "Socket"
	default:
		return "Unknown"
	}
}
