package adapter

import (
	"context"
	"errors"
	"fmt"

	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// ErrParse is returned when a front end cannot parse a file.
var ErrParse = errors.New("parse error")

// FrontEnd converts a source file into the language neutral syntax tree.
type FrontEnd interface {
	Parse(ctx context.Context, path m.Path, lang m.Language, src []byte) (*syntax.Tree, error)
}

// FrontEnds dispatches to the front end of each language.
type FrontEnds struct {
	Go FrontEnd
	C  FrontEnd
}

// NewFrontEnds wires the Go and C/C++ front ends.
func NewFrontEnds(goFE, cFE FrontEnd) *FrontEnds {
	return &FrontEnds{Go: goFE, C: cFE}
}

// Parse implements FrontEnd.
func (f *FrontEnds) Parse(ctx context.Context, path m.Path, lang m.Language, src []byte) (*syntax.Tree, error) {
	switch lang {
	case m.LanguageGo:
		if f.Go != nil {
			return f.Go.Parse(ctx, path, lang, src)
		}
	case m.LanguageC, m.LanguageCPP:
		if f.C != nil {
			return f.C.Parse(ctx, path, lang, src)
		}
	case m.LanguageUnknown:
	}

	return nil, fmt.Errorf("no front end for %s (%q)", path, lang)
}
