package generator

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DELTACMP_WORKERS", "")
	t.Setenv("DELTACMP_LOG_LEVEL", "")
	t.Setenv("DELTACMP_TAGS", "")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			want: DefaultConfig(),
		},
		{
			name: "file",
			file: "workers: 4\nlog_level: debug\ntags: [integration]\npatterns: [./ui/...]\n",
			want: Config{Workers: 4, LogLevel: "debug", Tags: []string{"integration"}, Patterns: []string{"./ui/..."}},
		},
		{
			name: "empty file",
			file: "",
			want: DefaultConfig(),
		},
		{
			name: "env overrides file",
			file: "workers: 4\nlog_level: debug\n",
			env:  map[string]string{"DELTACMP_WORKERS": "2", "DELTACMP_TAGS": "a, b"},
			want: Config{Workers: 2, LogLevel: "debug", Tags: []string{"a", "b"}, Patterns: []string{"./..."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			if tt.file != "" || tt.name == "empty file" {
				writeConfig(t, dir, tt.file)
			}

			got, err := LoadConfig(dir)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{"unknown field", "worker: 3\n", nil, "field worker not found"},
		{"bad level", "log_level: loud\n", nil, "log level"},
		{"bad env workers", "workers: 4\n", map[string]string{"DELTACMP_WORKERS": "abc"}, "environment"},
		{"bad env level", "", map[string]string{"DELTACMP_LOG_LEVEL": "loud"}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			writeConfig(t, dir, tt.file)

			_, err := LoadConfig(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestConfigLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := Config{LogLevel: in}.Level()
		if err != nil || got != want {
			t.Errorf("Level(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
