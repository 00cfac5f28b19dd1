package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestDialectFor(t *testing.T) {
	for _, lang := range []m.Language{m.LanguageGo, m.LanguageC, m.LanguageCPP} {
		d, err := DialectFor(lang)
		require.NoError(t, err)
		assert.NotNil(t, d)
	}

	_, err := DialectFor(m.LanguageUnknown)
	assert.Error(t, err)
}

func TestNewFileID(t *testing.T) {
	a, b := NewFileID(), NewFileID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), string(a), "usable inside identifiers")
	assert.Equal(t, "_sigcov_"+string(a), TableName(a))
}

func TestGoDialect(t *testing.T) {
	d := goDialect{}

	assert.Equal(t, "T.Hit(3);", d.Increment("T", 3))
	assert.Equal(t, ";T.Hit(4);", d.Implicit("T", 4))
	assert.Equal(t, "T.Link();", d.Link("T"))

	prefix, suffix := d.Wrap("T", 5, "")
	assert.Equal(t, "_sigcovrt.Pass(T, 5, (x > 1))", prefix+"x > 1"+suffix)

	prefix, suffix = d.Wrap("T", 5, "myBool")
	assert.Equal(t, "myBool(_sigcovrt.Pass(T, 5, (x)))", prefix+"x"+suffix)

	header, entry := d.AutoDump()
	assert.Empty(t, header)
	assert.Equal(t, "defer _sigcovrt.Dump();", entry)

	head, tail := d.Preamble("abc", 7, "a.go", "")
	assert.Equal(t, `; import _sigcovrt "`+DefaultGoRuntime+`"`, head)
	assert.Equal(t, "\nvar _sigcov_abc = _sigcovrt.NewFile(\"abc\", 7)\n", tail)

	head, _ = d.Preamble("abc", 7, "a.go", "example.com/rt")
	assert.Equal(t, `; import _sigcovrt "example.com/rt"`, head)
}

func TestCDialect(t *testing.T) {
	d := cDialect{}

	assert.Equal(t, "_sigcov_hit(&T, 3);", d.Increment("T", 3))
	assert.Equal(t, d.Increment("T", 4), d.Implicit("T", 4))
	assert.Equal(t, "_sigcov_link(&T);", d.Link("T"))

	prefix, suffix := d.Wrap("T", 5, "")
	assert.Equal(t, "(_sigcov_hit(&T, 5), x)", prefix+"x"+suffix)

	prefix, suffix = d.Wrap("T", 5, "bool")
	assert.Equal(t, "((bool)(_sigcov_hit(&T, 5), x))", prefix+"x"+suffix)

	header, entry := d.AutoDump()
	assert.Equal(t, "#include <stdlib.h>\n", header)
	assert.Equal(t, "atexit(_sigcov_dump);", entry)

	head, tail := d.Preamble("abc", 2, "dir/a.c", "")
	assert.Equal(t, "#include \"sigcovrt.h\"\nSIGCOV_FILE(_sigcov_abc, \"abc\", 2);\n#line 1 \"dir/a.c\"\n", head)
	assert.Empty(t, tail)

	assert.Equal(t, `"a_f1.h"`, d.IncludePath("a_f1.h"))
}
