package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// DefaultGoRuntime is the import path of the Go runtime counter library.
const DefaultGoRuntime = "github.com/mouse-blink/sigcov/pkg/covrt"

// Dialect spells the instrumentation code of one language.
type Dialect interface {
	// Increment is the statement counting a region entry.
	Increment(table string, id m.SignalID) string
	// Implicit is the statement placed right after another statement.
	Implicit(table string, id m.SignalID) string
	// Wrap returns the text placed around an operand so that evaluating
	// it counts the region and keeps the operand's type.
	Wrap(table string, id m.SignalID, coercion string) (prefix, suffix string)
	// Link registers the counter table at function entry.
	Link(table string) string
	// AutoDump returns text added to the file header and placed at the
	// start of the entry point body so counters are dumped on exit.
	AutoDump() (header, entry string)
	// Preamble returns the table declaration placed at the file header
	// and at the end of the file.
	Preamble(file m.FileID, count int, source m.Path, runtime string) (head, tail string)
	// IncludePath spells the redirected include path literal.
	IncludePath(name string) string
}

// DialectFor returns the dialect of a language.
func DialectFor(lang m.Language) (Dialect, error) {
	switch lang {
	case m.LanguageGo:
		return goDialect{}, nil
	case m.LanguageC, m.LanguageCPP:
		return cDialect{}, nil
	case m.LanguageUnknown:
	}

	return nil, fmt.Errorf("no instrumentation dialect for language %q", lang)
}

// NewFileID returns a fresh compiled-file-instance identifier usable
// inside identifiers.
func NewFileID() m.FileID {
	return m.FileID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// TableName is the identifier of the counter table of a file instance.
func TableName(file m.FileID) string {
	return "_sigcov_" + string(file)
}

type goDialect struct{}

func (goDialect) Increment(table string, id m.SignalID) string {
	return fmt.Sprintf("%s.Hit(%d);", table, id)
}

func (goDialect) Implicit(table string, id m.SignalID) string {
	return fmt.Sprintf(";%s.Hit(%d);", table, id)
}

func (goDialect) Wrap(table string, id m.SignalID, coercion string) (string, string) {
	prefix := fmt.Sprintf("_sigcovrt.Pass(%s, %d, (", table, id)
	if coercion == "" {
		return prefix, "))"
	}

	return coercion + "(" + prefix, ")))"
}

func (goDialect) Link(table string) string {
	return table + ".Link();"
}

func (goDialect) AutoDump() (string, string) {
	return "", "defer _sigcovrt.Dump();"
}

func (goDialect) Preamble(file m.FileID, count int, _ m.Path, runtime string) (string, string) {
	if runtime == "" {
		runtime = DefaultGoRuntime
	}

	head := "; import _sigcovrt " + strconv.Quote(runtime)
	tail := fmt.Sprintf("\nvar %s = _sigcovrt.NewFile(%q, %d)\n", TableName(file), string(file), count)

	return head, tail
}

func (goDialect) IncludePath(name string) string {
	return strconv.Quote(name)
}

type cDialect struct{}

func (cDialect) Increment(table string, id m.SignalID) string {
	return fmt.Sprintf("_sigcov_hit(&%s, %d);", table, id)
}

func (d cDialect) Implicit(table string, id m.SignalID) string {
	return d.Increment(table, id)
}

func (cDialect) Wrap(table string, id m.SignalID, coercion string) (string, string) {
	prefix := fmt.Sprintf("(_sigcov_hit(&%s, %d), ", table, id)
	if coercion == "" {
		return prefix, ")"
	}

	return "((" + coercion + ")" + prefix, "))"
}

func (cDialect) Link(table string) string {
	return "_sigcov_link(&" + table + ");"
}

func (cDialect) AutoDump() (string, string) {
	return "#include <stdlib.h>\n", "atexit(_sigcov_dump);"
}

func (cDialect) Preamble(file m.FileID, count int, source m.Path, _ string) (string, string) {
	head := fmt.Sprintf("#include \"sigcovrt.h\"\nSIGCOV_FILE(%s, %q, %d);\n#line 1 %s\n",
		TableName(file), string(file), count, strconv.Quote(string(source)))

	return head, ""
}

func (cDialect) IncludePath(name string) string {
	return strconv.Quote(name)
}
