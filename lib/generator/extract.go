package generator

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/pthm/deltacmp/lib/schema"
)

const (
	runtimePath = "github.com/pthm/deltacmp"
	templPath   = "github.com/a-h/templ"

	tagKey           = "dx"
	handlerDirective = "//dx:changed"
)

// Package is a type-checked package with its syntax.
type Package struct {
	Dir   string
	Fset  *token.FileSet
	Types *types.Package
	Files []*ast.File
}

// candidate is a named struct type that reaches deltacmp.Base.
type candidate struct {
	obj   *types.TypeName
	named *types.Named
	pos   token.Position
}

func (c candidate) name() string {
	return c.obj.Pkg().Path() + "." + c.obj.Name()
}

// findComponents returns the component types declared in pkg in source order.
func findComponents(pkg *Package) []candidate {
	var cands []candidate

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, ok := named.Underlying().(*types.Struct); !ok {
			continue
		}
		if !reachesBase(named, make(map[*types.Named]bool)) {
			continue
		}
		cands = append(cands, candidate{
			obj:   obj,
			named: named,
			pos:   pkg.Fset.Position(obj.Pos()),
		})
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i].pos, cands[j].pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
	return cands
}

// level is one struct in a component's embedding chain.
type level struct {
	named *types.Named
	st    *types.Struct
	path  string // selector from the receiver
	depth int
	// foreign is set when the level was declared outside the component's
	// package; only exported members are reachable from generated code.
	foreign bool
}

// chain walks the embedding chain from named up to, but excluding, Base.
func chain(named *types.Named) ([]level, error) {
	var levels []level
	home := named.Obj().Pkg()
	cur, path := named, "c"

	for depth := 0; ; depth++ {
		st := cur.Underlying().(*types.Struct)
		levels = append(levels, level{
			named:   cur,
			st:      st,
			path:    path,
			depth:   depth,
			foreign: cur.Obj().Pkg() != home,
		})

		var next []*types.Var
		hasBase := false
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			en := embeddedNamed(f.Type())
			switch {
			case en == nil:
			case isRuntimeType(en, "Base"):
				hasBase = true
			case reachesBase(en, make(map[*types.Named]bool)):
				next = append(next, f)
			}
		}

		switch {
		case hasBase && len(next) == 0:
			return levels, nil
		case hasBase || len(next) > 1:
			return nil, fmt.Errorf("%w: %s", schema.ErrAmbiguousBase, cur.Obj().Name())
		case len(next) == 0:
			// reachesBase guarantees a path; unreachable for valid input.
			return nil, fmt.Errorf("%s does not embed deltacmp.Base", cur.Obj().Name())
		}

		cur = embeddedNamed(next[0].Type())
		path = path + "." + next[0].Name()
	}
}

// reachesBase reports whether named embeds Base, directly or through
// other embedded structs.
func reachesBase(named *types.Named, seen map[*types.Named]bool) bool {
	if seen[named] {
		return false
	}
	seen[named] = true

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		en := embeddedNamed(f.Type())
		if en == nil {
			continue
		}
		if isRuntimeType(en, "Base") || reachesBase(en, seen) {
			return true
		}
	}
	return false
}

func embeddedNamed(t types.Type) *types.Named {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	n, _ := t.(*types.Named)
	return n
}

func isNamedType(t types.Type, path, name string) bool {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := n.Origin().Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == path && obj.Name() == name
}

func isRuntimeType(t types.Type, name string) bool {
	return isNamedType(t, runtimePath, name)
}

// extractor builds the schema of one component.
type extractor struct {
	pkg  *Package
	docs docIndex
	errs []error

	imports     map[string]string   // path -> name, every package seen
	exprImports map[string][]string // type expression -> paths it references
	cur         map[string]bool
}

func newExtractor(pkg *Package, docs docIndex) *extractor {
	return &extractor{
		pkg:         pkg,
		docs:        docs,
		imports:     make(map[string]string),
		exprImports: make(map[string][]string),
	}
}

// docIndex maps a method name position, which is what types.Func.Pos
// reports, to the method's doc comment.
type docIndex map[token.Pos]*ast.CommentGroup

// methodDocs indexes the method doc comments of files.
func methodDocs(files []*ast.File) docIndex {
	docs := make(docIndex)
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Doc == nil {
				continue
			}
			docs[fn.Name.Pos()] = fn.Doc
		}
	}
	return docs
}

// Extract builds the flattened schema of a component type.
func (e *extractor) Extract(c candidate) (*schema.ComponentSchema, error) {
	levels, err := chain(c.named)
	if err != nil {
		return nil, err
	}

	b := schema.NewBuilder(c.name(), c.obj.Name(), c.pos.Filename, c.pos.Line)

	if tparams := c.named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			tp := tparams.At(i)
			b.AddTypeParam(schema.TypeParam{
				Name:       tp.Obj().Name(),
				Constraint: types.TypeString(tp.Constraint(), e.relative),
				Kind:       constraintKind(tp),
			})
		}
	}

	for _, lvl := range levels {
		if lvl.foreign && !exportedPath(lvl.path) {
			continue
		}
		e.extractParams(b, lvl)
		e.extractHandlers(b, lvl)
	}
	for _, err := range e.errs {
		b.Fail(err)
	}

	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	s.Imports = e.importPaths(s)
	return s, nil
}

func (e *extractor) extractParams(b *schema.Builder, lvl level) {
	for i := 0; i < lvl.st.NumFields(); i++ {
		f := lvl.st.Field(i)
		tag, ok := reflect.StructTag(lvl.st.Tag(i)).Lookup(tagKey)
		if !ok || tag == "-" || f.Embedded() {
			continue
		}
		if lvl.foreign && !f.Exported() {
			continue
		}
		if !validType(f.Type()) {
			continue
		}

		name, flags, err := parseTag(tag)
		if err != nil {
			b.Fail(fmt.Errorf("field %s: %w", f.Name(), err))
			continue
		}
		if name == "" {
			name = f.Name()
		}

		p := schema.ParameterDescriptor{
			Name:  name,
			Field: f.Name(),
			Path:  lvl.path + "." + f.Name(),
			Level: lvl.depth,
			Type:  e.describe(f.Type()),
			Flags: flags,
		}
		if flags.Has(schema.Unmatched) {
			p.Sink = sinkKind(f.Type())
			if p.Sink == schema.SinkNone {
				b.Fail(fmt.Errorf("%w: field %s has type %s", schema.ErrInvalidSink, f.Name(), p.Type.Expr))
				continue
			}
		}
		b.AddParam(p)
	}
}

func (e *extractor) extractHandlers(b *schema.Builder, lvl level) {
	named := lvl.named
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if lvl.foreign && !m.Exported() {
			continue
		}
		targets := handlerTargets(e.docs[m.Origin().Pos()])
		if len(targets) == 0 {
			continue
		}
		sig, ok := m.Type().(*types.Signature)
		if !ok || !validType(sig) {
			continue
		}
		async, ok := handlerKind(sig)
		if !ok {
			b.Fail(fmt.Errorf("%w: %s", schema.ErrHandlerSignature, m.Name()))
			continue
		}
		for _, target := range targets {
			b.AddHandler(schema.ChangeHandlerBinding{
				Param:  target,
				Method: m.Name(),
				Path:   lvl.path + "." + m.Name(),
				Level:  lvl.depth,
				Async:  async,
			})
		}
	}
}

// handlerTargets returns the parameter names named by dx:changed directives.
func handlerTargets(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var targets []string
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, handlerDirective)
		if !ok {
			continue
		}
		for _, name := range strings.Fields(rest) {
			targets = append(targets, name)
		}
	}
	return targets
}

// handlerKind accepts func() and func(context.Context) error.
func handlerKind(sig *types.Signature) (async bool, ok bool) {
	params, results := sig.Params(), sig.Results()
	switch {
	case params.Len() == 0 && results.Len() == 0:
		return false, true
	case params.Len() == 1 && results.Len() == 1 &&
		isNamedType(params.At(0).Type(), "context", "Context") &&
		types.Identical(results.At(0).Type(), types.Universe.Lookup("error").Type()):
		return true, true
	default:
		return false, false
	}
}

// parseTag parses a dx struct tag: "name,option,...".
func parseTag(tag string) (name string, flags schema.Flags, err error) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		f, ok := schema.ParseFlag(opt)
		if !ok {
			return "", 0, fmt.Errorf("%w %q", schema.ErrUnknownOption, opt)
		}
		flags |= f
	}
	return name, flags, nil
}

// describe reduces a declared type to what the classifier and the
// synthesizer need.
func (e *extractor) describe(t types.Type) schema.TypeDesc {
	e.cur = make(map[string]bool)
	desc := schema.TypeDesc{Expr: types.TypeString(t, e.qualify)}
	for p := range e.cur {
		e.exprImports[desc.Expr] = append(e.exprImports[desc.Expr], p)
	}
	e.cur = nil

	switch {
	case isTypeParam(t):
		desc.Category = schema.CategoryTypeParam
		desc.Shape = schema.ShapeTypeParam
		desc.Constraint = constraintKind(types.Unalias(t).(*types.TypeParam))
		return desc
	case isRuntimeType(t, "EventCallback"), isRuntimeType(t, "EventCallbackOf"):
		desc.Category = schema.CategoryCallback
		desc.Shape = schema.ShapeIncomparable
		return desc
	case isNamedType(t, templPath, "Component"):
		desc.Category = schema.CategoryFunction
		desc.Shape = schema.ShapeInterface
		return desc
	}

	switch t.Underlying().(type) {
	case *types.Basic:
		desc.Category = schema.CategoryValue
	case *types.Struct, *types.Array:
		desc.Category = schema.CategoryValue
		switch {
		case !types.Comparable(t):
			desc.Shape = schema.ShapeIncomparable
		case !strictlyComparable(t):
			desc.Shape = schema.ShapeDynamic
		}
	case *types.Pointer, *types.Chan:
		desc.Category = schema.CategoryReference
	case *types.Interface:
		desc.Category = schema.CategoryReference
		desc.Shape = schema.ShapeInterface
	case *types.Signature:
		desc.Category = schema.CategoryFunction
		desc.Shape = schema.ShapeFunc
	case *types.Slice:
		desc.Category = schema.CategoryCollection
		desc.Shape = schema.ShapeSlice
	case *types.Map:
		desc.Category = schema.CategoryCollection
		desc.Shape = schema.ShapeMap
	}
	return desc
}

func isTypeParam(t types.Type) bool {
	_, ok := types.Unalias(t).(*types.TypeParam)
	return ok
}

// constraintKind classifies a type parameter's constraint.
func constraintKind(tp *types.TypeParam) schema.ConstraintKind {
	iface, ok := tp.Constraint().Underlying().(*types.Interface)
	if !ok {
		return schema.ConstraintAny
	}
	terms := typeTerms(iface)
	if len(terms) > 0 && allReferences(terms) {
		return schema.ConstraintReference
	}
	// Bare comparable admits interface type arguments, whose == can panic.
	if len(terms) > 0 && allStrictlyComparable(terms) {
		return schema.ConstraintValue
	}
	if iface.NumMethods() > 0 || len(terms) > 0 || iface.IsComparable() {
		return schema.ConstraintBounded
	}
	return schema.ConstraintAny
}

func typeTerms(iface *types.Interface) []types.Type {
	var terms []types.Type
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		switch et := iface.EmbeddedType(i).(type) {
		case *types.Union:
			for j := 0; j < et.Len(); j++ {
				terms = append(terms, et.Term(j).Type())
			}
		default:
			if inner, ok := et.Underlying().(*types.Interface); ok {
				terms = append(terms, typeTerms(inner)...)
			} else {
				terms = append(terms, et)
			}
		}
	}
	return terms
}

func allReferences(terms []types.Type) bool {
	for _, t := range terms {
		switch t.Underlying().(type) {
		case *types.Pointer, *types.Chan:
		default:
			return false
		}
	}
	return true
}

func allStrictlyComparable(terms []types.Type) bool {
	for _, t := range terms {
		if !strictlyComparable(t) {
			return false
		}
	}
	return true
}

// strictlyComparable reports whether == on t can never panic: t is
// comparable and holds no interface or type parameter.
func strictlyComparable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		return u.Kind() != types.UntypedNil && u.Kind() != types.Invalid
	case *types.Pointer, *types.Chan:
		return true
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if !strictlyComparable(u.Field(i).Type()) {
				return false
			}
		}
		return true
	case *types.Array:
		return strictlyComparable(u.Elem())
	default:
		return false
	}
}

// sinkKind returns how an unmatched sink of type t is stored.
func sinkKind(t types.Type) schema.SinkKind {
	if isRuntimeType(t, "AttributeView") {
		return schema.SinkView
	}
	m, ok := t.Underlying().(*types.Map)
	if !ok {
		return schema.SinkNone
	}
	key, ok := m.Key().Underlying().(*types.Basic)
	if !ok || key.Kind() != types.String {
		return schema.SinkNone
	}
	elem, ok := m.Elem().Underlying().(*types.Interface)
	if !ok || !elem.Empty() {
		return schema.SinkNone
	}
	return schema.SinkMap
}

// validType reports whether t resolved. Members whose declared type failed
// to resolve are dropped from the schema.
func validType(t types.Type) bool {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return t.Kind() != types.Invalid
	case *types.Pointer:
		return validType(t.Elem())
	case *types.Slice:
		return validType(t.Elem())
	case *types.Array:
		return validType(t.Elem())
	case *types.Chan:
		return validType(t.Elem())
	case *types.Map:
		return validType(t.Key()) && validType(t.Elem())
	case *types.Signature:
		for _, tup := range []*types.Tuple{t.Params(), t.Results()} {
			for i := 0; i < tup.Len(); i++ {
				if !validType(tup.At(i).Type()) {
					return false
				}
			}
		}
		return true
	default:
		return true
	}
}

// exportedPath reports whether every embedded field in a selector path is
// exported.
func exportedPath(path string) bool {
	for _, part := range strings.Split(path, ".")[1:] {
		if !token.IsExported(part) {
			return false
		}
	}
	return true
}

// qualify is a types.Qualifier that records the packages a type
// expression references.
func (e *extractor) qualify(p *types.Package) string {
	if p == e.pkg.Types {
		return ""
	}
	if e.cur != nil {
		e.cur[p.Path()] = true
	}
	if name, ok := e.imports[p.Path()]; ok {
		return name
	}
	for path, name := range e.imports {
		if name == p.Name() && path != p.Path() {
			e.errs = append(e.errs, fmt.Errorf("import name %q used by both %s and %s", name, path, p.Path()))
		}
	}
	e.imports[p.Path()] = p.Name()
	return p.Name()
}

// relative qualifies without recording imports, for text that never ends up
// in generated code.
func (e *extractor) relative(p *types.Package) string {
	if p == e.pkg.Types {
		return ""
	}
	return p.Name()
}

// importPaths returns the packages referenced by the types of the schema's
// matchable parameters, the only types spelled out in generated code.
func (e *extractor) importPaths(s *schema.ComponentSchema) []string {
	set := make(map[string]bool)
	for _, p := range s.Params {
		for _, path := range e.exprImports[p.Type.Expr] {
			set[path] = true
		}
	}
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// importNames maps each path in paths to its package name.
func (e *extractor) importNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	for _, p := range paths {
		names[p] = e.imports[p]
	}
	return names
}
