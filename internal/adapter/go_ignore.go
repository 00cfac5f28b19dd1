package adapter

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
)

const ignoreDirective = "sigcov:ignore"

// parseIgnoreDirective reports whether a comment is a sigcov:ignore
// directive. Text after the directive is a free-form reason.
func parseIgnoreDirective(commentText string) bool {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return false
	}

	rest := strings.TrimPrefix(s, ignoreDirective)

	return rest == "" || unicode.IsSpace(rune(rest[0]))
}

// ignoreIndex records which parts of a Go file carry ignore directives.
type ignoreIndex struct {
	file      bool
	funcByPos map[token.Pos]bool
	line      map[int]bool
}

func (ix ignoreIndex) function(fd *ast.FuncDecl) bool {
	return ix.funcByPos[fd.Pos()]
}

func (ix ignoreIndex) lineIgnored(line int) bool {
	return ix.line[line]
}

func buildIgnoreIndex(file *ast.File, fset *token.FileSet, content []byte) ignoreIndex {
	funcByPos, funcDocGroups := buildFuncIgnoreRules(file)

	return ignoreIndex{
		file:      buildFileIgnoreRule(file),
		funcByPos: funcByPos,
		line:      buildLineIgnoreRules(file, fset, content, funcDocGroups),
	}
}

func buildFuncIgnoreRules(file *ast.File) (map[token.Pos]bool, map[*ast.CommentGroup]struct{}) {
	funcByPos := make(map[token.Pos]bool)
	funcDocGroups := map[*ast.CommentGroup]struct{}{}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}

		funcDocGroups[fd.Doc] = struct{}{}

		for _, c := range fd.Doc.List {
			if parseIgnoreDirective(c.Text) {
				funcByPos[fd.Pos()] = true
			}
		}
	}

	return funcByPos, funcDocGroups
}

func buildFileIgnoreRule(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.End() >= file.Package {
			continue
		}

		for _, c := range group.List {
			if parseIgnoreDirective(c.Text) {
				return true
			}
		}
	}

	return false
}

// buildLineIgnoreRules maps a trailing directive to its own line and a
// directive on a line of its own to the following line.
func buildLineIgnoreRules(
	file *ast.File,
	fset *token.FileSet,
	content []byte,
	funcDocGroups map[*ast.CommentGroup]struct{},
) map[int]bool {
	lines := make(map[int]bool)
	lineStarts := computeLineStarts(content)

	for _, group := range file.Comments {
		if group.End() < file.Package {
			continue
		}

		if _, ok := funcDocGroups[group]; ok {
			continue
		}

		for _, c := range group.List {
			if !parseIgnoreDirective(c.Text) {
				continue
			}

			pos := fset.PositionFor(c.Slash, false)
			if pos.Line <= 0 {
				continue
			}

			targetLine := pos.Line
			if isLeadingComment(pos.Line, pos.Offset, lineStarts, content) {
				targetLine = pos.Line + 1
			}

			lines[targetLine] = true
		}
	}

	return lines
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, slashOffset int, lineStarts []int, content []byte) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if slashOffset < start || slashOffset > len(content) {
		return false
	}

	for _, b := range content[start:slashOffset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
