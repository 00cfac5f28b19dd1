package adapter

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// GoPackage describes the Go package held by one directory.
type GoPackage struct {
	Dir         m.Path
	Name        string
	HasTests    bool
	HasTestMain bool
}

// TestRunnerAdapter runs the Go toolchain against a module workspace.
type TestRunnerAdapter interface {
	// RunGoTest runs `go test` for packages inside workdir with env added to
	// the process environment and returns the combined output.
	RunGoTest(ctx context.Context, workdir m.Path, packages []string, env []string) (string, error)

	// ModulePath returns the module path declared by the go.mod file.
	ModulePath(goMod m.Path) (string, error)

	// Package inspects the Go package in dir.
	Package(dir m.Path) (GoPackage, error)
}

// LocalTestRunnerAdapter runs the go binary found on PATH.
type LocalTestRunnerAdapter struct {
	goBin string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{goBin: "go"}
}

// RunGoTest runs go test in workdir.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workdir m.Path, packages []string, env []string) (string, error) {
	if len(packages) == 0 {
		packages = []string{"./..."}
	}

	args := append([]string{"test"}, packages...)

	// #nosec G204 - arguments are package patterns passed to go test
	cmd := exec.CommandContext(ctx, a.goBin, args...)
	cmd.Dir = string(workdir)
	cmd.Env = append(os.Environ(), env...)

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("go test: %w", err)
	}

	return out.String(), nil
}

// ModulePath parses goMod and returns its module path.
func (a *LocalTestRunnerAdapter) ModulePath(goMod m.Path) (string, error) {
	content, err := os.ReadFile(string(goMod))
	if err != nil {
		return "", err
	}

	f, err := modfile.Parse(string(goMod), content, nil)
	if err != nil {
		return "", fmt.Errorf("parse go.mod: %w", err)
	}

	if f.Module == nil {
		return "", fmt.Errorf("%s declares no module", goMod)
	}

	return f.Module.Mod.Path, nil
}

// Package reads the package clause of the first non-test file in dir and
// looks for a TestMain in the test files.
func (a *LocalTestRunnerAdapter) Package(dir m.Path) (GoPackage, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return GoPackage{}, err
	}

	pkg := GoPackage{Dir: dir}
	fset := token.NewFileSet()

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		path := filepath.Join(string(dir), name)

		if !strings.HasSuffix(name, "_test.go") {
			if pkg.Name != "" {
				continue
			}

			f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
			if err != nil {
				return GoPackage{}, err
			}

			pkg.Name = f.Name.Name

			continue
		}

		pkg.HasTests = true

		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return GoPackage{}, err
		}

		if hasTestMain(f.Decls) {
			pkg.HasTestMain = true
		}
	}

	return pkg, nil
}

func hasTestMain(decls []ast.Decl) bool {
	for _, decl := range decls {
		fd, ok := decl.(*ast.FuncDecl)
		if ok && fd.Recv == nil && fd.Name.Name == "TestMain" {
			return true
		}
	}

	return false
}
