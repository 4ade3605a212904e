// Copyright 2021-2024, Florent Heyworth. All rights reserved.
// Use of this source code is governed by the MIT licensee
// which can be found in the LICENSE file.

// Package optab provides declarative command-line option processing.
//
// A caller supplies a table of option specifications - alias groups mapped to
// compact spec literals - and optab turns an argument vector into a fully
// validated, defaulted set of bindings plus the list of positional arguments.
// Six value kinds are supported:
//
//	Bool    - presence-only flag, true when seen
//	Counter - incremented on each invocation ("-vvv")
//	Integer - signed decimal value, optionally range-restricted
//	String  - literal value, optionally restricted to an enumeration
//	Array   - comma-separated list, or key:value pairs forming a mapping
//	Extend  - values accumulate across invocations instead of overwriting
//
// Long options may be abbreviated to any unambiguous prefix, short Bool and
// Counter options bundle ("-vvn"), and "--" terminates option scanning. A
// fixed set of reserved options (help, dry-run, verbose, debug, time-tag and,
// when configured, version) is merged into every table.
package optab

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/napalu/optab/parse"
	"github.com/napalu/optab/types/orderedmap"
	"github.com/napalu/optab/util"
)

// NewParser creates a Parser with the reserved options registered. Use
// NewParserWith to configure a Parser using option functions.
func NewParser() *Parser {
	p := &Parser{
		specs:    orderedmap.New[string, *OptionSpec](),
		lookup:   map[string]string{},
		bindings: map[string]*Binding{},
		errors:   []error{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	p.failHandler = p.defaultFail
	p.registerReserved()

	return p
}

// SetVersion configures the version message and registers the reserved
// "-V, --version" option. Returns an error when a caller spec already
// claimed one of its aliases.
func (p *Parser) SetVersion(version string) error {
	if version == "" {
		return wrapf(ErrSpecConflict, "empty version message")
	}
	if p.version != "" {
		p.version = version

		return nil
	}

	p.version = version
	if err := p.registerVersion(); err != nil {
		p.version = ""

		return err
	}

	return nil
}

// SetDepthCharge toggles unrecognized-option tolerance: instead of failing,
// unresolved options are captured verbatim and surfaced via GetUnmatchedArgs.
func (p *Parser) SetDepthCharge(enabled bool) {
	p.depthCharge = enabled
}

// SetStrictAliases disables abbreviation - only exact alias matches resolve.
func (p *Parser) SetStrictAliases(strict bool) {
	p.strictAliases = strict
}

// SetFailHandler replaces the fail contract used for every unrecoverable
// condition. The default handler prints the diagnostic and exits the process.
func (p *Parser) SetFailHandler(handler FailFunc) {
	if handler != nil {
		p.failHandler = handler
	}
}

// SetAuditFile configures an append-only log to which each successful parse
// writes its reconstructed invocation line.
func (p *Parser) SetAuditFile(path string) {
	p.auditPath = path
}

// SetOutput redirects usage, version and diagnostic output - stdout for
// usage/version, stderr for diagnostics and messages.
func (p *Parser) SetOutput(stdout, stderr io.Writer) {
	if stdout != nil {
		p.stdout = stdout
	}
	if stderr != nil {
		p.stderr = stderr
	}
}

// Parse scans an argument vector against the compiled spec table. Every
// element of args is one atomic piece - embedded whitespace survives. On any
// validation or resolution failure the fail contract is invoked; when the
// installed handler returns instead of exiting, Parse returns false. The
// defaulting pass fills every option not seen on the command line from its
// declared default before Parse returns. A failing audit append does not
// fail the parse - the bindings are complete, and the write error is
// surfaced through GetErrors.
func (p *Parser) Parse(args []string) bool {
	pruneExecPathFromArgs(&args)
	p.resetScan()

	state := parse.NewState(args)
	for !p.failed {
		piece, ok := p.nextPiece(state)
		if !ok {
			break
		}
		p.processPiece(state, piece)
	}

	if !p.failed {
		p.applyDefaults()
	}
	if !p.failed {
		p.reconcileVerbosity()
	}

	ok := !p.failed && len(p.errors) == 0
	if ok && p.auditPath != "" {
		if err := p.appendAudit(); err != nil {
			p.addError(err)
		}
	}

	return ok
}

// ParseString splits a command line with shell quoting rules and parses the
// result - quoted multi-word values stay single pieces.
func (p *Parser) ParseString(argString string) bool {
	args, err := parse.Split(argString)
	if err != nil {
		p.resetScan()
		p.fatal(wrapf(ErrSyntax, "%s", err.Error()))

		return false
	}

	return p.Parse(args)
}

// Get returns the canonical string rendering of a binding and true when the
// binding is present (invoked or defaulted). Lists render comma-joined,
// mappings as comma-joined key:value pairs.
func (p *Parser) Get(control string) (string, bool) {
	b, found := p.bindings[control]
	if !found {
		return "", false
	}

	return renderBinding(b), true
}

// GetOrDefault returns the rendered binding value or defaultValue when the
// binding is absent.
func (p *Parser) GetOrDefault(control string, defaultValue string) string {
	if value, found := p.Get(control); found {
		return value
	}

	return defaultValue
}

// GetBool converts the binding value to a bool.
func (p *Parser) GetBool(control string) (bool, error) {
	value, found := p.Get(control)
	if !found {
		return false, wrapf(ErrControlNotFound, "%s", control)
	}

	var val bool
	err := util.ConvertString(value, &val)

	return val, err
}

// GetInt converts the binding value to an int64.
func (p *Parser) GetInt(control string) (int64, error) {
	value, found := p.Get(control)
	if !found {
		return 0, wrapf(ErrControlNotFound, "%s", control)
	}

	var val int64
	err := util.ConvertString(value, &val)

	return val, err
}

// GetTime converts the binding value to a time.Time using lenient date
// parsing.
func (p *Parser) GetTime(control string) (time.Time, error) {
	value, found := p.Get(control)
	if !found {
		return time.Time{}, wrapf(ErrControlNotFound, "%s", control)
	}

	var val time.Time
	err := util.ConvertString(value, &val)

	return val, err
}

// GetCount returns the accumulated count of a Counter binding; an absent
// binding counts zero.
func (p *Parser) GetCount(control string) int64 {
	if b, found := p.bindings[control]; found {
		return b.Int
	}

	return 0
}

// GetList returns the ordered elements of an Array binding holding a list.
func (p *Parser) GetList(control string) ([]string, error) {
	b, found := p.bindings[control]
	if !found {
		return nil, wrapf(ErrControlNotFound, "%s", control)
	}
	if b.Kind != Array || b.Map != nil {
		return nil, wrapf(ErrTypeValidation, "%s does not hold a list", control)
	}

	return b.List, nil
}

// GetMap returns the mapping of an Array binding holding key:value pairs.
// Insertion order is preserved.
func (p *Parser) GetMap(control string) (*orderedmap.OrderedMap[string, string], error) {
	b, found := p.bindings[control]
	if !found {
		return nil, wrapf(ErrControlNotFound, "%s", control)
	}
	if b.Kind != Array || b.Map == nil {
		return nil, wrapf(ErrTypeValidation, "%s does not hold a mapping", control)
	}

	return b.Map, nil
}

// GetExtended returns the accumulated value of an Extend binding: the
// segments of every invocation, space-joined, each quoted when it would not
// survive re-splitting.
func (p *Parser) GetExtended(control string) (string, error) {
	b, found := p.bindings[control]
	if !found {
		return "", wrapf(ErrControlNotFound, "%s", control)
	}
	if b.Kind != Extend {
		return "", wrapf(ErrTypeValidation, "%s is not an extend option", control)
	}

	return b.Str, nil
}

// GetEcho returns the literal re-rendering of how an option was last (or,
// for Extend, cumulatively) specified.
func (p *Parser) GetEcho(control string) string {
	if b, found := p.bindings[control]; found {
		return b.Echo
	}

	return ""
}

// Invoked reports whether the option was seen at least once on the command
// line - defaulted bindings are present but not invoked.
func (p *Parser) Invoked(control string) bool {
	b, found := p.bindings[control]

	return found && b.Invoked
}

// GetSpec returns the compiled OptionSpec for a control name or alias.
func (p *Parser) GetSpec(name string) (*OptionSpec, error) {
	if control, found := p.lookup[name]; found {
		name = control
	}
	if spec, found := p.specs.Get(name); found {
		return spec, nil
	}

	return nil, wrapf(ErrControlNotFound, "%s", name)
}

// GetDescription retrieves the description of a spec by control name or alias
func (p *Parser) GetDescription(name string) string {
	spec, err := p.GetSpec(name)
	if err != nil {
		return ""
	}

	return spec.Description
}

// GetPositionalArgs returns the pieces consumed neither as options nor as
// option values, in command-line order.
func (p *Parser) GetPositionalArgs() []PositionalArgument {
	return p.positionalArgs
}

// GetPositionalArgCount returns the number of positional arguments
func (p *Parser) GetPositionalArgCount() int {
	return len(p.positionalArgs)
}

// HasPositionalArgs returns true when positional arguments were seen
func (p *Parser) HasPositionalArgs() bool {
	return p.GetPositionalArgCount() > 0
}

// GetUnmatchedArgs returns the raw unrecognized options captured in
// depth-charge mode, verbatim and in order.
func (p *Parser) GetUnmatchedArgs() []string {
	return p.unmatched
}

// GetKeysSeen returns the count of option keys matched during the scan
func (p *Parser) GetKeysSeen() int {
	return p.keysSeen
}

// GetErrors returns the errors encountered during Parse
func (p *Parser) GetErrors() []error {
	return p.errors
}

// GetErrorCount is greater than zero when errors were encountered during Parse
func (p *Parser) GetErrorCount() int {
	return len(p.errors)
}

func (p *Parser) defaultFail(message string, code int) {
	if message != "" {
		fmt.Fprintf(p.stderr, "%s: %s\n", progName(), message)
	}
	os.Exit(code)
}
