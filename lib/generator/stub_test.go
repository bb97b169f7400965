package generator

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"testing"
)

// stubSources stand in for the packages generated code depends on, so the
// tests type-check without a module cache.
var stubSources = map[string]string{
	"context": `package context

type Context interface {
	Err() error
}

func Background() Context { return nil }
`,
	"github.com/a-h/templ": `package templ

import "context"

type Component interface {
	Render(ctx context.Context, w any) error
}

type Attributes map[string]any
`,
	"github.com/pthm/deltacmp": `package deltacmp

import "context"

type Base struct{}

func (b *Base) Latched(name string) bool                  { return false }
func (b *Base) Latch(name string)                        {}
func (b *Base) MarkCSSDirty()                            {}
func (b *Base) SetEventType(name string) bool            { return false }
func (b *Base) Dispatch(fn func(ctx context.Context) error) {}

type Parameter struct {
	Name  string
	Value any
}

type ParameterView []Parameter

type ParameterSetter interface {
	SetParameters(params ParameterView) bool
}

type EventCallback struct {
	Receiver any
	fn       func(ctx context.Context) error
}

func (cb EventCallback) Equal(other EventCallback) bool { return false }

type EventCallbackOf[T any] struct {
	Receiver any
	fn       func(ctx context.Context, arg T) error
}

func (cb EventCallbackOf[T]) Equal(other EventCallbackOf[T]) bool { return false }

type AttributeView struct{ m map[string]any }

func As[T any](v any) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

func Equal[T any](a, b T) bool                            { return false }
func SameFunc[F any](a, b F) bool                         { return false }
func SameSlice[S ~[]E, E any](a, b S) bool                { return false }
func SameMap[M ~map[K]V, K comparable, V any](a, b M) bool { return false }
func SameIdentity(a, b any) bool                          { return false }

func MergeMap[M ~map[string]any](bag *M, name string, value any) (changed, cssDirty bool) {
	return false, false
}

func MergeView(bag *AttributeView, name string, value any) (changed, cssDirty bool) {
	return false, false
}

func IsBindingEvent(name string) bool { return false }
`,
	"example.com/kit": `package kit

import "github.com/pthm/deltacmp"

type Input struct {
	deltacmp.Base
	Value  string ` + "`dx:\"\"`" + `
	hidden int    ` + "`dx:\"\"`" + `
}

type Item struct{ ID int }
`,
}

// stubImporter type-checks stub packages on demand.
type stubImporter struct {
	fset *token.FileSet
	pkgs map[string]*types.Package
}

func (im *stubImporter) Import(path string) (*types.Package, error) {
	if p, ok := im.pkgs[path]; ok {
		return p, nil
	}
	src, ok := stubSources[path]
	if !ok {
		return nil, fmt.Errorf("no stub for %s", path)
	}
	f, err := parser.ParseFile(im.fset, path+"/stub.go", src, 0)
	if err != nil {
		return nil, err
	}
	conf := types.Config{Importer: im}
	p, err := conf.Check(path, im.fset, []*ast.File{f}, nil)
	if err != nil {
		return nil, err
	}
	im.pkgs[path] = p
	return p, nil
}

const testPkgPath = "example.com/widgets"

// checked is a type-checked test package and the type errors it produced.
type checked struct {
	*Package
	errs []error
}

// check type-checks sources, keyed by file name, as one package. Type
// errors are collected rather than failing the test.
func check(t *testing.T, sources map[string]string) *checked {
	t.Helper()

	fset := token.NewFileSet()
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var files []*ast.File
	for _, name := range names {
		f, err := parser.ParseFile(fset, "/src/"+name, sources[name], parser.ParseComments)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		files = append(files, f)
	}

	c := &checked{}
	conf := types.Config{
		Importer: &stubImporter{fset: fset, pkgs: make(map[string]*types.Package)},
		Error:    func(err error) { c.errs = append(c.errs, err) },
	}
	pkg, _ := conf.Check(testPkgPath, fset, files, nil)
	c.Package = &Package{Dir: "/src", Fset: fset, Types: pkg, Files: files}
	return c
}

// checkClean is check for sources expected to be free of type errors.
func checkClean(t *testing.T, sources map[string]string) *Package {
	t.Helper()
	c := check(t, sources)
	if len(c.errs) > 0 {
		t.Fatalf("type errors: %v", errors.Join(c.errs...))
	}
	return c.Package
}

// component returns the candidate named name.
func component(t *testing.T, pkg *Package, name string) candidate {
	t.Helper()
	for _, c := range findComponents(pkg) {
		if c.obj.Name() == name {
			return c
		}
	}
	t.Fatalf("component %s not found", name)
	return candidate{}
}

// extract builds the schema of the component named name.
func extract(t *testing.T, pkg *Package, name string) (*extractor, candidate) {
	t.Helper()
	return newExtractor(pkg, methodDocs(pkg.Files)), component(t, pkg, name)
}
