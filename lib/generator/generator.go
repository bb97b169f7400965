package generator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pthm/deltacmp/lib/schema"
)

// Options configures the generator.
type Options struct {
	DryRun bool
	// Workers bounds the number of component types synthesized in parallel.
	// Zero means GOMAXPROCS.
	Workers int
	// BuildTags are passed to the package loader.
	BuildTags []string
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Stdout receives progress lines. Defaults to os.Stdout.
	Stdout io.Writer
}

// Generator generates deltacmp code.
type Generator struct {
	opts Options
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Generator{opts: opts}
}

// Report is the outcome of one generator run.
type Report struct {
	Files       []string
	Schemas     []*schema.ComponentSchema
	Diagnostics []Diagnostic
	// Code holds the formatted contents of every generated file, written
	// or not.
	Code map[string][]byte
}

// HasErrors returns true if any component failed to generate.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Generate generates code for the given package patterns.
//
// A component that fails to analyze or synthesize is reported as an error
// diagnostic and skipped; other components are unaffected. The returned
// error is reserved for failures to find or load packages.
func (g *Generator) Generate(patterns ...string) (*Report, error) {
	return g.run(patterns, true)
}

// Analyze extracts and synthesizes like Generate but writes nothing.
func (g *Generator) Analyze(patterns ...string) (*Report, error) {
	return g.run(patterns, false)
}

func (g *Generator) run(patterns []string, write bool) (*Report, error) {
	dirs, err := g.findPackages(patterns)
	if err != nil {
		return nil, err
	}

	session := NewSession(g.opts.Logger)
	report := &Report{Code: make(map[string][]byte)}
	for _, dir := range dirs {
		pkgs, err := g.load(dir)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", dir, err)
		}
		for _, pkg := range pkgs {
			files, schemas := g.generatePackage(session, pkg, report.Code, write)
			report.Files = append(report.Files, files...)
			report.Schemas = append(report.Schemas, schemas...)
		}
	}
	report.Diagnostics = session.Diagnostics()
	return report, nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		// Handle ./... pattern
		if strings.HasSuffix(pattern, "/...") {
			root := strings.TrimSuffix(pattern, "/...")
			if root == "" {
				root = "."
			}

			err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return nil
				}
				// Skip hidden directories, vendor and testdata
				base := filepath.Base(path)
				if path != root && skipDir(base) {
					return filepath.SkipDir
				}

				// Check if directory contains Go files
				entries, err := os.ReadDir(path)
				if err != nil {
					return nil
				}
				for _, entry := range entries {
					if isSourceFile(entry.Name()) {
						packages = append(packages, path)
						break
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			// Direct path
			packages = append(packages, pattern)
		}
	}

	return packages, nil
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, generatedSuffix)
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), generatedSuffix) {
			path := filepath.Join(pkgPath, entry.Name())
			fmt.Fprintf(g.opts.Stdout, "removing %s\n", path)
			if !g.opts.DryRun {
				if err := os.Remove(path); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// unit is the result of analyzing one component type.
type unit struct {
	cand candidate
	code *componentCode
}

// generatePackage analyzes every component of pkg and, if write is set,
// generates one file per source file, recording its contents in code.
func (g *Generator) generatePackage(session *Session, pkg *Package, code map[string][]byte, write bool) ([]string, []*schema.ComponentSchema) {
	cands := findComponents(pkg)
	if len(cands) == 0 {
		return nil, nil
	}
	docs := methodDocs(pkg.Files)

	// Claims happen in source order so the first occurrence wins
	// deterministically; synthesis then runs in parallel.
	units := make([]*unit, len(cands))
	var eg errgroup.Group
	eg.SetLimit(g.opts.Workers)
	for i, c := range cands {
		if !session.Claim(c.name(), c.pos) {
			continue
		}
		eg.Go(func() error {
			units[i] = g.synthesizeUnit(session, pkg, docs, c)
			return nil
		})
	}
	_ = eg.Wait()

	var schemas []*schema.ComponentSchema
	var order []string
	bySource := make(map[string][]*unit)
	for _, u := range units {
		if u == nil {
			continue
		}
		schemas = append(schemas, u.code.Schema)
		src := u.cand.pos.Filename
		if _, ok := bySource[src]; !ok {
			order = append(order, src)
		}
		bySource[src] = append(bySource[src], u)
	}

	var files []string
	for _, src := range order {
		out, formatted, ok := g.generateFile(session, pkg, src, bySource[src], write)
		if !ok {
			continue
		}
		files = append(files, out)
		if formatted != nil && code != nil {
			code[out] = formatted
		}
	}
	return files, schemas
}

// synthesizeUnit extracts and synthesizes one component. Failures, panics
// included, are reported against the component and yield nil.
func (g *Generator) synthesizeUnit(session *Session, pkg *Package, docs docIndex, c candidate) (u *unit) {
	defer func() {
		if r := recover(); r != nil {
			session.Report(Diagnostic{
				Severity:  SeverityError,
				Component: c.name(),
				Pos:       c.pos,
				Message:   fmt.Sprintf("synthesis panicked: %v", r),
			})
			u = nil
		}
	}()

	e := newExtractor(pkg, docs)
	s, err := e.Extract(c)
	if err != nil {
		session.Report(Diagnostic{Severity: SeverityError, Component: c.name(), Pos: c.pos, Message: err.Error()})
		return nil
	}
	code, err := synthesize(s, e.importNames(s.Imports))
	if err != nil {
		session.Report(Diagnostic{Severity: SeverityError, Component: c.name(), Pos: c.pos, Message: err.Error()})
		return nil
	}
	return &unit{cand: c, code: code}
}

// generateFile renders, formats and, unless DryRun is set, writes the
// generated file for one source file. Without write it only renders.
func (g *Generator) generateFile(session *Session, pkg *Package, source string, units []*unit, write bool) (string, []byte, bool) {
	output := outputFile(source)
	comps := make([]*componentCode, len(units))
	for i, u := range units {
		comps[i] = u.code
	}

	fail := func(err error) (string, []byte, bool) {
		for _, u := range units {
			session.Report(Diagnostic{Severity: SeverityError, Component: u.cand.name(), Pos: u.cand.pos, Message: err.Error()})
		}
		return "", nil, false
	}

	code, err := renderFile(pkg.Types.Name(), source, comps)
	if err != nil {
		return fail(fmt.Errorf("render template: %w", err))
	}
	if !write {
		g.succeed(session, units, output)
		return output, nil, true
	}

	fmt.Fprintf(g.opts.Stdout, "generating %s\n", output)
	formatted, err := g.formatSource(output, code)
	if err != nil {
		return fail(err)
	}
	if !g.opts.DryRun {
		if err := os.WriteFile(output, formatted, 0644); err != nil {
			return fail(err)
		}
	}
	g.succeed(session, units, output)
	return output, formatted, true
}

func (g *Generator) succeed(session *Session, units []*unit, output string) {
	for _, u := range units {
		session.Report(Diagnostic{
			Severity:  SeverityInfo,
			Component: u.cand.name(),
			Pos:       u.cand.pos,
			Message:   fmt.Sprintf("generated SetParameters (%d parameters) in %s", len(u.code.Schema.Params), filepath.Base(output)),
		})
	}
}
