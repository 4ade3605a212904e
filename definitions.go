package optab

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ef-ds/deque"
	"github.com/napalu/optab/types/orderedmap"
)

// Kind identifies the value discipline of an option.
type Kind int

const (
	// Empty denotes an option whose kind has not been set
	Empty Kind = iota
	// Bool denotes a presence-only option which evaluates to true when seen
	Bool
	// Counter denotes an option whose count is incremented on each invocation
	Counter
	// Integer denotes an option expecting a signed decimal value
	Integer
	// String denotes an option expecting a literal string value
	String
	// Array denotes an option expecting a comma-separated list or a comma-separated set of key:value pairs
	Array
	// Extend denotes an option whose values accumulate (space-joined) across invocations
	Extend
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Counter:
		return "counter"
	case Integer:
		return "integer"
	case String:
		return "string"
	case Array:
		return "array"
	case Extend:
		return "extend"
	default:
		return "empty"
	}
}

// kindTags maps the single-letter type prefix of a spec literal to a Kind.
// A literal without a type prefix compiles to String.
var kindTags = map[byte]Kind{
	'b': Bool,
	'c': Counter,
	'i': Integer,
	's': String,
	'a': Array,
	'e': Extend,
}

// takesValue returns true for kinds which consume exactly one value
func (k Kind) takesValue() bool {
	switch k {
	case Integer, String, Array, Extend:
		return true
	}

	return false
}

// IntegerRange restricts the values an Integer (or Bool) option accepts.
// A nil bound is unbounded on that side.
type IntegerRange struct {
	Low  *int64
	High *int64
}

// Contains reports whether v satisfies the range
func (r *IntegerRange) Contains(v int64) bool {
	if r.Low != nil && v < *r.Low {
		return false
	}
	if r.High != nil && v > *r.High {
		return false
	}

	return true
}

// String renders the range in colon form, an unbounded side staying empty
func (r *IntegerRange) String() string {
	var sb strings.Builder
	if r.Low != nil {
		sb.WriteString(strconv.FormatInt(*r.Low, 10))
	}
	sb.WriteByte(':')
	if r.High != nil {
		sb.WriteString(strconv.FormatInt(*r.High, 10))
	}

	return sb.String()
}

// OptionSpec is the compiled description of one option. Specs are built from
// an alias group ("-t,--ticker") and a spec literal ("i-TICKER:5::0:10") by
// Parser.AddSpec and are immutable once built - concurrent parses may share
// a table freely.
type OptionSpec struct {
	Aliases     []string
	Kind        Kind
	Control     string
	Default     string
	HasDefault  bool
	Range       *IntegerRange
	Enum        []string
	Description string

	reserved        bool
	implicitDefault bool
}

// PrimaryAlias returns the first listed alias - conventionally the short
// form, used when echoing an invocation.
func (o *OptionSpec) PrimaryAlias() string {
	return o.Aliases[0]
}

// LongAlias returns the first alias with a double-dash prefix. Every spec has
// at least one.
func (o *OptionSpec) LongAlias() string {
	for _, a := range o.Aliases {
		if strings.HasPrefix(a, "--") {
			return a
		}
	}

	return o.Aliases[0]
}

// Binding holds the live value of one option during and after a parse. The
// typed payload and the literal echo are independent slots: the payload feeds
// the typed accessors, the echo reconstructs how the option was specified so
// the invocation can be forwarded verbatim to a subordinate process.
type Binding struct {
	Kind    Kind
	Invoked bool
	Echo    string

	// seq orders invocations within one scan - a later invocation carries a
	// higher value
	seq int

	Bool bool
	Int  int64
	Str  string
	List []string
	Map  *orderedmap.OrderedMap[string, string]
}

// PositionalArgument describes a command-line piece which was consumed
// neither as an option nor as an option value.
type PositionalArgument struct {
	Position int
	Value    string
}

// FailFunc is invoked on every unrecoverable condition. The default handler
// writes the diagnostic to stderr and exits the process with the given code;
// hosts which need to recover install their own handler via WithFailHandler.
type FailFunc func(message string, code int)

// ConfigureParserFunc is used when configuring a Parser via NewParserWith
type ConfigureParserFunc func(p *Parser, err *error)

// Reserved control names. Their aliases are reserved across every invocation.
const (
	ControlHelp    = "HELP"
	ControlDryRun  = "DRYRUN"
	ControlVerbose = "VERBOSE"
	ControlDebug   = "DEBUG"
	ControlTimeTag = "TIMETAG"
	ControlVersion = "VERSION"
)

var (
	ErrSpecConflict       = errors.New("spec conflict")
	ErrUnrecognizedOption = errors.New("unrecognized option")
	ErrAmbiguousOption    = errors.New("ambiguous option")
	ErrMissingValue       = errors.New("missing value")
	ErrTypeValidation     = errors.New("invalid value")
	ErrSyntax             = errors.New("syntax error")
	ErrControlNotFound    = errors.New("control not found")
)

const FmtErrorWithString = "%w: %s"

// exitInternal is the status reported when a condition the design renders
// structurally impossible is observed anyway.
const exitInternal = 70

// Parser compiles option specs into a table and scans argument vectors
// against it. The table is immutable once Parse has run; each Parse call owns
// its own scan state and produces an independent binding set.
type Parser struct {
	specs    *orderedmap.OrderedMap[string, *OptionSpec]
	lookup   map[string]string
	bindings map[string]*Binding

	positionalArgs []PositionalArgument
	unmatched      []string
	errors         []error
	keysSeen       int
	terminated     bool
	failed         bool
	replay         *deque.Deque

	depthCharge   bool
	strictAliases bool
	version       string
	auditPath     string
	failHandler   FailFunc
	stdout        io.Writer
	stderr        io.Writer
}

func (p *Parser) addError(err error) {
	p.errors = append(p.errors, err)
}

// fatal records err and reports it through the fail contract with the
// default non-zero status.
func (p *Parser) fatal(err error) {
	p.addError(err)
	p.terminate(err.Error(), 1)
}

func (p *Parser) terminate(message string, code int) {
	p.failed = true
	p.failHandler(message, code)
}

func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf(FmtErrorWithString, sentinel, fmt.Sprintf(format, args...))
}
