package stone

// MetaTag identifies the field a Meta record carries. Unknown discriminants
// decode as MetaTagUnknown, which is the 16-bit sentinel UINT16_MAX per
// spec §4.3.
type MetaTag uint16

const (
	MetaTagName MetaTag = iota + 1
	MetaTagArchitecture
	MetaTagVersion
	MetaTagSummary
	MetaTagDescription
	MetaTagHomepage
	MetaTagSourceID
	MetaTagDepends
	MetaTagProvides
	MetaTagConflicts
	MetaTagRelease
	MetaTagLicense
	MetaTagBuildRelease
	MetaTagPackageURI
	MetaTagPackageHash
	MetaTagPackageSize
	MetaTagBuildDepends
	MetaTagSourceURI
	MetaTagSourcePath
	MetaTagSourceRef

	MetaTagUnknown MetaTag = 0xFFFF
)

var metaTagNames = map[MetaTag]string{
	MetaTagName:         "Name",
	MetaTagArchitecture: "Architecture",
	MetaTagVersion:      "Version",
	MetaTagSummary:      "Summary",
	MetaTagDescription:  "Description",
	MetaTagHomepage:     "Homepage",
	MetaTagSourceID:     "SourceID",
	MetaTagDepends:      "Depends",
	MetaTagProvides:     "Provides",
	MetaTagConflicts:    "Conflicts",
	MetaTagRelease:      "Release",
	MetaTagLicense:      "License",
	MetaTagBuildRelease: "BuildRelease",
	MetaTagPackageURI:   "PackageURI",
	MetaTagPackageHash:  "PackageHash",
	MetaTagPackageSize:  "PackageSize",
	MetaTagBuildDepends: "BuildDepends",
	MetaTagSourceURI:    "SourceURI",
	MetaTagSourcePath:   "SourcePath",
	MetaTagSourceRef:    "SourceRef",
}

func metaTagFromWire(v uint16) MetaTag {
	if _, ok := metaTagNames[MetaTag(v)]; ok {
		return MetaTag(v)
	}
	return MetaTagUnknown
}

func (t MetaTag) String() string {
	if s, ok := metaTagNames[t]; ok {
		return s
	}
	return "Unknown"
}

// MetaPrimitiveType identifies the wire shape of a Meta record's value.
type MetaPrimitiveType uint8

const (
	MetaPrimitiveInt8 MetaPrimitiveType = iota + 1
	MetaPrimitiveUint8
	MetaPrimitiveInt16
	MetaPrimitiveUint16
	MetaPrimitiveInt32
	MetaPrimitiveUint32
	MetaPrimitiveInt64
	MetaPrimitiveUint64
	MetaPrimitiveString
	MetaPrimitiveDependency
	MetaPrimitiveProvider

	MetaPrimitiveUnknown MetaPrimitiveType = 255
)

func metaPrimitiveFromWire(v uint8) MetaPrimitiveType {
	switch v {
	case 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11:
		return MetaPrimitiveType(v)
	default:
		return MetaPrimitiveUnknown
	}
}

func (p MetaPrimitiveType) String() string {
	switch p {
	case MetaPrimitiveInt8:
		return "Int8"
	case MetaPrimitiveUint8:
		return "Uint8"
	case MetaPrimitiveInt16:
		return "Int16"
	case MetaPrimitiveUint16:
		return "Uint16"
	case MetaPrimitiveInt32:
		return "Int32"
	case MetaPrimitiveUint32:
		return "Uint32"
	case MetaPrimitiveInt64:
		return "Int64"
	case MetaPrimitiveUint64:
		return "Uint64"
	case MetaPrimitiveString:
		return "String"
	case MetaPrimitiveDependency:
		return "Dependency"
	case MetaPrimitiveProvider:
		return "Provider"
	default:
		return "Unknown"
	}
}

// MetaDependencyKind is the sub-enumeration carried by Dependency and
// Provider primitive values.
type MetaDependencyKind uint8

const (
	MetaDependencyPackageName MetaDependencyKind = iota + 1
	MetaDependencySharedLibrary
	MetaDependencyPkgConfig
	MetaDependencyInterpreter
	MetaDependencyCMake
	MetaDependencyPython
	MetaDependencyBinary
	MetaDependencySystemBinary
	MetaDependencyPkgConfig32

	MetaDependencyUnknown MetaDependencyKind = 255
)

func metaDependencyKindFromWire(v uint8) MetaDependencyKind {
	switch v {
	case 1, 2, 3, 4, 5, 6, 7, 8, 9:
		return MetaDependencyKind(v)
	default:
		return MetaDependencyUnknown
	}
}

func (k MetaDependencyKind) String() string {
	switch k {
	case MetaDependencyPackageName:
		return "PackageName"
	case MetaDependencySharedLibrary:
		return "SharedLibrary"
	case MetaDependencyPkgConfig:
		return "PkgConfig"
	case MetaDependencyInterpreter:
		return "Interpreter"
	case MetaDependencyCMake:
		return "CMake"
	case MetaDependencyPython:
		return "Python"
	case MetaDependencyBinary:
		return "Binary"
	case MetaDependencySystemBinary:
		return "SystemBinary"
	case MetaDependencyPkgConfig32:
		return "PkgConfig32"
	default:
		return "Unknown"
	}
}
