package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Language is the source language of an instrumentable file.
type Language string

const (
	// LanguageGo marks Go sources.
	LanguageGo Language = "go"
	// LanguageC marks C sources and headers.
	LanguageC Language = "c"
	// LanguageCPP marks C++ sources and headers.
	LanguageCPP Language = "cpp"
	// LanguageUnknown marks files sigcov does not instrument.
	LanguageUnknown Language = ""
)

// LanguageOf picks the language from the file extension.
func LanguageOf(path Path) Language {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".go":
		return LanguageGo
	case ".c", ".h":
		return LanguageC
	case ".cc", ".cpp", ".cxx", ".hh", ".hpp", ".hxx":
		return LanguageCPP
	}

	return LanguageUnknown
}

// Source is a discovered source file together with the root it was found
// under. Rel is the path relative to Root and decides where outputs land.
type Source struct {
	Path     Path
	Root     Path
	Rel      Path
	Language Language
}
