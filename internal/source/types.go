package source

type (
	// FileID identifies a script within a FileSet. IDs are dense and start at 0.
	FileID uint32
	// FileFlags records how a script's bytes were obtained.
	FileFlags uint8
)

const (
	// FileVirtual marks a script added from memory (tests, MapLoader) or one
	// that could not be read and exists only to anchor a diagnostic.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded MaPL script.
type File struct {
	ID   FileID
	Path string
	// Content has the BOM stripped and CRLF folded to LF.
	Content []byte
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// PathStyle selects how a script path is shown to the user.
type PathStyle uint8

const (
	// PathAsLoaded prints the normalized absolute path the compiler uses.
	PathAsLoaded PathStyle = iota
	PathAbsolute
	// PathRelative prints the path relative to the FileSet base directory.
	PathRelative
	PathBase
)
