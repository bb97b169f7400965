package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/pthm/deltacmp/lib/schema"
)

// generatedSuffix is appended to the source file name of generated files.
const generatedSuffix = "_dx.go"

// componentCode is the synthesized SetParameters of one component.
type componentCode struct {
	Schema   *schema.ComponentSchema
	Receiver string // e.g. "Counter" or "Select[T]"
	Cases    []string
	Assert   bool
	imports  map[string]string // path -> name
}

// synthesize assembles the cases of one component: declared parameters in
// schema order, then the fallback.
func synthesize(s *schema.ComponentSchema, imports map[string]string) (*componentCode, error) {
	code := &componentCode{
		Schema:   s,
		Receiver: receiver(s),
		Assert:   !s.IsGeneric(),
		imports:  imports,
	}

	for _, p := range s.Params {
		var h *schema.ChangeHandlerBinding
		if p.Handler != "" {
			h, _ = s.Handler(p.Name)
		}
		c, err := synthesizeCase(p, schema.Classify(p.Type), h)
		if err != nil {
			return nil, err
		}
		code.Cases = append(code.Cases, c)
	}

	fallback, err := synthesizeFallback(s)
	if err != nil {
		return nil, err
	}
	if fallback != "" {
		code.Cases = append(code.Cases, fallback)
	}
	return code, nil
}

// receiver returns the receiver type, keeping type parameter names so
// the declared constraints apply to the generated method.
func receiver(s *schema.ComponentSchema) string {
	if !s.IsGeneric() {
		return s.TypeName
	}
	names := make([]string, len(s.TypeParams))
	for i, tp := range s.TypeParams {
		names[i] = tp.Name
	}
	return s.TypeName + "[" + strings.Join(names, ", ") + "]"
}

// outputFile returns the generated file path for a source file.
func outputFile(source string) string {
	return strings.TrimSuffix(source, ".go") + generatedSuffix
}

type importSpec struct {
	Name string // empty when it matches the last path element
	Path string
}

func (s importSpec) String() string {
	if s.Name == "" {
		return strconv.Quote(s.Path)
	}
	return s.Name + " " + strconv.Quote(s.Path)
}

// fileImports merges the imports of every component in a file.
func fileImports(comps []*componentCode) []importSpec {
	all := map[string]string{runtimePath: "deltacmp"}
	for _, c := range comps {
		for p, name := range c.imports {
			all[p] = name
		}
	}

	specs := make([]importSpec, 0, len(all))
	for p, name := range all {
		spec := importSpec{Path: p}
		if path.Base(p) != name {
			spec.Name = name
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})
	return specs
}

// renderFile renders the generated file for one source file.
func renderFile(pkgName, source string, comps []*componentCode) ([]byte, error) {
	tmpl, err := template.New("dx").Parse(dxTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Source     string
		Package    string
		Imports    []importSpec
		Components []*componentCode
	}{
		Source:     filepath.Base(source),
		Package:    pkgName,
		Imports:    fileImports(comps),
		Components: comps,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatSource formats generated code. On failure outside dry runs the
// unformatted code is written next to the output file for debugging.
func (g *Generator) formatSource(output string, code []byte) ([]byte, error) {
	formatted, err := format.Source(code)
	if err != nil {
		if !g.opts.DryRun {
			if writeErr := os.WriteFile(output+".unformatted", code, 0644); writeErr == nil {
				fmt.Fprintf(g.opts.Stdout, "  wrote unformatted code to %s.unformatted for debugging\n", output)
			}
		}
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

const dxTemplate = `// Code generated by deltacmp. DO NOT EDIT.
// Source: {{.Source}}

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{range .Components}}
{{if .Assert -}}
var _ deltacmp.ParameterSetter = (*{{.Receiver}})(nil)

{{end -}}
// SetParameters applies a parameter delivery to {{.Schema.TypeName}} and
// reports whether it should be redrawn.
func (c *{{.Receiver}}) SetParameters(params deltacmp.ParameterView) bool {
	changed := false
	for _, p := range params {
		switch p.Name {
		{{- range .Cases}}
		{{.}}
		{{- end}}
		}
	}
	return changed
}
{{end}}`
