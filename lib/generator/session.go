package generator

import (
	"context"
	"fmt"
	"go/token"
	"log/slog"
	"sort"
	"sync"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) level() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Diagnostic is a message about one component type.
type Diagnostic struct {
	Severity  Severity
	Component string
	Pos       token.Position
	Message   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", d.Pos, d.Severity, d.Component, d.Message)
}

// Session is the state shared by every unit of one generator run: the set
// of component types already seen and the collected diagnostics. It is safe
// for concurrent use.
type Session struct {
	logger *slog.Logger

	mu    sync.Mutex
	seen  map[string]token.Position
	diags []Diagnostic
}

// NewSession creates an empty session logging to logger.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger: logger,
		seen:   make(map[string]token.Position),
	}
}

// Claim registers a component type. The first claim wins; a second claim
// for the same type reports a warning and returns false.
func (s *Session) Claim(name string, pos token.Position) bool {
	s.mu.Lock()
	first, dup := s.seen[name]
	if !dup {
		s.seen[name] = pos
	}
	s.mu.Unlock()

	if dup {
		s.Report(Diagnostic{
			Severity:  SeverityWarning,
			Component: name,
			Pos:       pos,
			Message:   fmt.Sprintf("already processed (first seen at %s), skipping", first),
		})
		return false
	}
	return true
}

// Report records a diagnostic.
func (s *Session) Report(d Diagnostic) {
	s.mu.Lock()
	s.diags = append(s.diags, d)
	s.mu.Unlock()

	s.logger.Log(context.Background(), d.Severity.level(), d.Message,
		slog.String("component", d.Component),
		slog.String("pos", d.Pos.String()),
	)
}

// Diagnostics returns the recorded diagnostics ordered by position.
func (s *Session) Diagnostics() []Diagnostic {
	s.mu.Lock()
	diags := make([]Diagnostic, len(s.diags))
	copy(diags, s.diags)
	s.mu.Unlock()

	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Pos, diags[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
	return diags
}

// HasErrors returns true if any error diagnostic was recorded.
func (s *Session) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
