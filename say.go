package optab

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Sayer emits leveled messages gated by the verbosity negotiated between the
// reserved --verbose and --debug options. When a --time-tag layout was given
// every message carries a timestamp; the program-name prefix is dropped when
// writing to a terminal.
type Sayer struct {
	w        io.Writer
	level    int64
	layout   string
	terminal bool
	now      func() time.Time
}

// Sayer builds the message helper from the final bindings of the last parse.
// Call it after Parse has returned.
func (p *Parser) Sayer() *Sayer {
	layout := ""
	if tag, found := p.Get(ControlTimeTag); found {
		layout = tag
	}

	return &Sayer{
		w:        p.stderr,
		level:    p.GetCount(ControlVerbose),
		layout:   layout,
		terminal: isTerminal(p.stderr),
		now:      time.Now,
	}
}

// Level returns the effective verbosity
func (s *Sayer) Level() int64 {
	return s.level
}

// Shout always emits
func (s *Sayer) Shout(format string, args ...interface{}) {
	s.emit(format, args...)
}

// Say emits at verbosity 1 and above
func (s *Sayer) Say(format string, args ...interface{}) {
	if s.level >= 1 {
		s.emit(format, args...)
	}
}

// Whisper emits at verbosity 2 and above
func (s *Sayer) Whisper(format string, args ...interface{}) {
	if s.level >= 2 {
		s.emit(format, args...)
	}
}

func (s *Sayer) emit(format string, args ...interface{}) {
	var prefix string
	if s.layout != "" {
		prefix = s.now().Format(s.layout) + " "
	}
	if !s.terminal {
		prefix += progName() + ": "
	}

	fmt.Fprintf(s.w, prefix+format+"\n", args...)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}

	return false
}
