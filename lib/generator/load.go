package generator

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// load type-checks the package in dir.
//
// Previously generated files are replaced by their package clause so that a
// stale or broken SetParameters never affects analysis. Type errors are
// tolerated: members whose types fail to resolve are skipped during
// extraction.
func (g *Generator) load(dir string) ([]*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	overlay, err := generatedOverlay(abs)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode:    loadMode,
		Dir:     abs,
		Fset:    fset,
		Overlay: overlay,
		Logf: func(format string, args ...any) {
			g.opts.Logger.Debug(fmt.Sprintf(format, args...))
		},
	}
	if len(g.opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(g.opts.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	var out []*Package
	for _, p := range pkgs {
		for _, e := range p.Errors {
			g.opts.Logger.Debug("type error", "package", p.PkgPath, "error", e.Error())
		}
		if p.Types == nil {
			continue
		}
		out = append(out, &Package{
			Dir:   abs,
			Fset:  fset,
			Types: p.Types,
			Files: p.Syntax,
		})
	}
	return out, nil
}

// generatedOverlay returns an overlay reducing every generated file in dir
// to its package clause.
func generatedOverlay(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	overlay := make(map[string][]byte)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), generatedSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		overlay[path] = packageClause(path, src)
	}
	return overlay, nil
}

// packageClause returns src cut down to its package clause, keeping any
// build constraints above it.
func packageClause(path string, src []byte) []byte {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, "//go:build") {
				buf.WriteString(c.Text)
				buf.WriteString("\n\n")
			}
		}
	}
	fmt.Fprintf(&buf, "package %s\n", f.Name.Name)
	return buf.Bytes()
}
