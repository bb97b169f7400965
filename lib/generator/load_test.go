package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPackageClause(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain",
			src:  "// Code generated by deltacmp. DO NOT EDIT.\n\npackage widgets\n\nfunc (c *C) SetParameters() bool { return broken }\n",
			want: "package widgets\n",
		},
		{
			name: "build constraint",
			src:  "//go:build wasm\n\n// Code generated by deltacmp. DO NOT EDIT.\n\npackage widgets\n\nvar x = 1\n",
			want: "//go:build wasm\n\npackage widgets\n",
		},
		{
			name: "unparsable",
			src:  "not go",
			want: "not go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(packageClause("w_dx.go", []byte(tt.src)))
			if got != tt.want {
				t.Errorf("packageClause = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratedOverlay(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.go":    "package w\n",
		"a_dx.go": "package w\n\nfunc stale() {}\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	overlay, err := generatedOverlay(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]byte{filepath.Join(dir, "a_dx.go"): []byte("package w\n")}
	if diff := cmp.Diff(want, overlay); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchRoots(t *testing.T) {
	got := watchRoots([]string{"./...", "./ui/...", "./ui/...", "cmd", "/..."})
	want := []string{".", "./ui", "cmd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}
}
