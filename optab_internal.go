package optab

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ef-ds/deque"
	"github.com/napalu/optab/parse"
	"github.com/napalu/optab/types/orderedmap"
	"github.com/napalu/optab/util"
)

// resetScan discards the state of any previous parse. The spec table is the
// only thing that survives across Parse calls.
func (p *Parser) resetScan() {
	p.bindings = map[string]*Binding{}
	p.positionalArgs = nil
	p.unmatched = nil
	p.errors = p.errors[:0]
	p.keysSeen = 0
	p.terminated = false
	p.failed = false
	p.replay = deque.New()
}

// nextPiece drains replayed pieces (expanded short bundles) before advancing
// the argument cursor.
func (p *Parser) nextPiece(state *parse.State) (string, bool) {
	if p.replay.Len() > 0 {
		piece, _ := p.replay.PopFront()

		return piece.(string), true
	}
	if state.Advance() {
		return state.CurrentArg(), true
	}

	return "", false
}

func (p *Parser) processPiece(state *parse.State, piece string) {
	switch {
	case p.terminated:
		p.addPositional(state, piece)
	case piece == "--":
		p.terminated = true
	case piece == "-":
		p.fatal(wrapf(ErrSyntax, "standalone '-' where an option was expected"))
	case strings.HasPrefix(piece, "--"):
		p.processLong(state, piece)
	case strings.HasPrefix(piece, "-"):
		p.processShort(state, piece)
	default:
		p.addPositional(state, piece)
	}
}

func (p *Parser) addPositional(state *parse.State, piece string) {
	p.positionalArgs = append(p.positionalArgs, PositionalArgument{
		Position: state.Pos(),
		Value:    piece,
	})
}

func (p *Parser) processLong(state *parse.State, piece string) {
	key, inline, hasInline := strings.Cut(piece, "=")
	if key == "--" {
		p.fatal(wrapf(ErrSyntax, "option %q has an empty key", piece))

		return
	}

	spec, err := p.resolveLong(key)
	if err != nil {
		p.handleUnresolved(state, piece, err)

		return
	}

	p.consumeOption(state, spec, inline, hasInline)
}

// processShort handles "-x", "-x=v" and bundles "-abc"/"-abc=v". In a bundle
// every character but the last must resolve to a Bool or Counter option; the
// last is replayed and resolved like any other short option, value and all.
func (p *Parser) processShort(state *parse.State, piece string) {
	body, inline, hasInline := strings.Cut(piece[1:], "=")
	if body == "" {
		p.fatal(wrapf(ErrSyntax, "option %q has an empty key", piece))

		return
	}

	if len(body) == 1 {
		spec, err := p.resolveExact("-" + body)
		if err != nil {
			p.handleUnresolved(state, piece, err)

			return
		}
		p.consumeOption(state, spec, inline, hasInline)

		return
	}

	chars := []rune(body)
	for _, ch := range chars[:len(chars)-1] {
		alias := "-" + string(ch)
		spec, err := p.resolveExact(alias)
		if err != nil {
			p.handleUnresolved(state, piece, err)

			return
		}
		if spec.Kind.takesValue() {
			p.fatal(wrapf(ErrSyntax, "option %s requires a value and cannot lead a bundle in %q", alias, piece))

			return
		}
	}

	for _, ch := range chars[:len(chars)-1] {
		p.replay.PushBack("-" + string(ch))
	}
	last := "-" + string(chars[len(chars)-1])
	if hasInline {
		last += "=" + inline
	}
	p.replay.PushBack(last)
}

// handleUnresolved implements depth-charge capture: with tolerance enabled an
// unrecognized option is recorded verbatim instead of failing. A bare value
// piece immediately following it stays fatal - without a spec there is no
// arity to attribute it by. Ambiguity is always fatal.
func (p *Parser) handleUnresolved(state *parse.State, piece string, err error) {
	if !p.depthCharge || !isUnrecognized(err) {
		p.fatal(err)

		return
	}

	p.unmatched = append(p.unmatched, piece)
	if state.HasNext() && p.replay.Len() == 0 {
		next := state.Peek()
		if !strings.HasPrefix(next, "-") || next == "-" {
			p.fatal(wrapf(ErrSyntax, "value %q cannot be attributed to unrecognized option %q", next, piece))
		}
	}
}

func isUnrecognized(err error) bool {
	return errors.Is(err, ErrUnrecognizedOption)
}

func (p *Parser) resolveExact(key string) (*OptionSpec, error) {
	if control, found := p.lookup[key]; found {
		spec, _ := p.specs.Get(control)

		return spec, nil
	}

	return nil, wrapf(ErrUnrecognizedOption, "%s", key)
}

// resolveLong resolves a long key exactly or, unless strict aliases are
// configured, by unambiguous prefix. A prefix matches an alias either with
// its dashes ("--verb" ~ "--verbose") or with the leading dash group of both
// stripped ("verb" ~ "verbose"). Exactly one spec may match.
func (p *Parser) resolveLong(key string) (*OptionSpec, error) {
	if spec, err := p.resolveExact(key); err == nil {
		return spec, nil
	}
	if p.strictAliases {
		return nil, wrapf(ErrUnrecognizedOption, "%s", key)
	}

	bare := strings.TrimLeft(key, "-")
	var (
		match      *OptionSpec
		candidates []string
	)
	for e := p.specs.Front(); e != nil; e = e.Next() {
		spec := e.Value()
		for _, alias := range spec.Aliases {
			if strings.HasPrefix(alias, key) || strings.HasPrefix(strings.TrimLeft(alias, "-"), bare) {
				if match != spec {
					match = spec
					candidates = append(candidates, alias)
				}
				break
			}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, wrapf(ErrUnrecognizedOption, "%s", key)
	case 1:
		return match, nil
	default:
		return nil, wrapf(ErrAmbiguousOption, "%s matches %s", key, strings.Join(candidates, ", "))
	}
}

// consumeOption applies one matched option: resolve its value (inline, next
// piece, or the implicit value of Bool/Counter), parse, validate and bind.
func (p *Parser) consumeOption(state *parse.State, spec *OptionSpec, inline string, hasInline bool) {
	p.keysSeen++

	if !spec.Kind.takesValue() {
		if hasInline {
			p.fatal(wrapf(ErrSyntax, "%s option %s does not take a value", spec.Kind, spec.PrimaryAlias()))

			return
		}
		p.bindImplicit(spec)
		p.triggerReserved(spec)

		return
	}

	raw := inline
	if !hasInline {
		next, ok := p.claimValue(state, spec)
		if !ok {
			p.fatal(wrapf(ErrMissingValue, "option %s expects a value", spec.PrimaryAlias()))

			return
		}
		raw = next
	}

	if err := p.parseAndBind(spec, raw, true); err != nil {
		p.fatal(err)
	}
}

// claimValue consumes the next piece as the pending option's value. End of
// input or a piece that looks like another option means the value is missing;
// a lone "-" and, for Integer options, a signed number are taken as values.
func (p *Parser) claimValue(state *parse.State, spec *OptionSpec) (string, bool) {
	if !state.HasNext() {
		return "", false
	}

	next := state.Peek()
	if looksLikeOption(next) {
		if spec.Kind != Integer || !isSignedInteger(next) {
			return "", false
		}
	}
	state.Advance()

	return next, true
}

func looksLikeOption(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

func isSignedInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)

	return err == nil
}

// bindImplicit supplies the automatic value of a presence-only option:
// true for Bool, +1 for Counter.
func (p *Parser) bindImplicit(spec *OptionSpec) {
	b := p.binding(spec)
	switch spec.Kind {
	case Bool:
		b.Bool = true
	case Counter:
		b.Int++
	}
	b.Invoked = true
	b.seq = p.keysSeen
	b.Echo = spec.PrimaryAlias()
}

// parseAndBind runs the type-specific value parser and validator for one raw
// value and applies the result with the kind's write semantics. The
// defaulting pass reuses it with invoked=false.
func (p *Parser) parseAndBind(spec *OptionSpec, raw string, invoked bool) error {
	b := p.binding(spec)

	switch spec.Kind {
	case Bool:
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return wrapf(ErrTypeValidation, "%q is not a bool for option %s", raw, spec.PrimaryAlias())
		}
		b.Bool = val
	case Integer:
		val, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wrapf(ErrTypeValidation, "%q is not an integer for option %s", raw, spec.PrimaryAlias())
		}
		if spec.Range != nil && !spec.Range.Contains(val) {
			return wrapf(ErrTypeValidation, "%d is outside range [%s] for option %s", val, spec.Range, spec.PrimaryAlias())
		}
		b.Int = val
	case String:
		if len(spec.Enum) > 0 && !containsString(spec.Enum, raw) {
			return wrapf(ErrTypeValidation, "%q is not one of %s for option %s", raw, strings.Join(spec.Enum, ", "), spec.PrimaryAlias())
		}
		b.Str = raw
	case Array:
		if err := p.bindArray(b, spec, raw); err != nil {
			return err
		}
	case Extend:
		segment := util.QuoteIfNeeded(raw)
		if b.Invoked {
			b.Str += " " + segment
		} else {
			b.Str = segment
		}
	default:
		return wrapf(ErrTypeValidation, "%s option %s does not accept a value", spec.Kind, spec.PrimaryAlias())
	}

	if invoked {
		b.Invoked = true
		b.seq = p.keysSeen
		p.setEcho(b, spec, raw)
	}

	return nil
}

// bindArray parses a raw Array value - key:value pairs when a colon is
// present, a plain ordered list otherwise - and merges it into the binding.
// The first value establishes which form the binding holds.
func (p *Parser) bindArray(b *Binding, spec *OptionSpec, raw string) error {
	if strings.Contains(raw, ":") {
		pairs, err := parseMapValue(raw, spec)
		if err != nil {
			return err
		}
		if b.Invoked && b.Map == nil {
			return wrapf(ErrTypeValidation, "option %s already holds a list, not a mapping", spec.PrimaryAlias())
		}
		if b.Map == nil {
			b.Map = orderedmap.New[string, string]()
		}
		for _, kv := range pairs {
			b.Map.Set(kv[0], kv[1])
		}

		return nil
	}

	if b.Invoked && b.Map != nil {
		return wrapf(ErrTypeValidation, "option %s already holds a mapping, not a list", spec.PrimaryAlias())
	}
	if raw != "" {
		b.List = append(b.List, strings.Split(raw, ",")...)
	} else if b.List == nil {
		b.List = []string{}
	}

	return nil
}

func parseMapValue(raw string, spec *OptionSpec) ([][2]string, error) {
	elements := strings.Split(raw, ",")
	pairs := make([][2]string, 0, len(elements))

	for _, el := range elements {
		if el == "" {
			return nil, wrapf(ErrTypeValidation, "empty key in value %q for option %s", raw, spec.PrimaryAlias())
		}
		key, value, found := strings.Cut(el, ":")
		if !found {
			return nil, wrapf(ErrTypeValidation, "dangling key %q without a value for option %s", el, spec.PrimaryAlias())
		}
		if key == "" {
			return nil, wrapf(ErrTypeValidation, "value %q found where a key was expected for option %s", el, spec.PrimaryAlias())
		}
		pairs = append(pairs, [2]string{key, value})
	}

	return pairs, nil
}

// setEcho refreshes the literal re-rendering of the option: primary alias
// plus, for value-bearing kinds, the current value, quoted when it would not
// survive re-splitting. Extend echoes its whole accumulation.
func (p *Parser) setEcho(b *Binding, spec *OptionSpec, raw string) {
	switch spec.Kind {
	case Bool:
		if b.Bool {
			b.Echo = spec.PrimaryAlias()
		} else {
			b.Echo = ""
		}
	case Counter:
		b.Echo = spec.PrimaryAlias()
	case Extend:
		b.Echo = spec.PrimaryAlias() + " " + b.Str
	default:
		b.Echo = spec.PrimaryAlias() + " " + util.QuoteIfNeeded(raw)
	}
}

func (p *Parser) binding(spec *OptionSpec) *Binding {
	b, found := p.bindings[spec.Control]
	if !found {
		b = &Binding{Kind: spec.Kind}
		p.bindings[spec.Control] = b
	}

	return b
}

// applyDefaults fills every option not invoked during the scan from its
// declared default, running it through the same parse/validate/bind path as
// a command-line value. Options without a default stay absent - distinct
// from present with an empty value.
func (p *Parser) applyDefaults() {
	for e := p.specs.Front(); e != nil; e = e.Next() {
		spec := e.Value()
		if b, found := p.bindings[spec.Control]; found && b.Invoked {
			continue
		}
		if !spec.HasDefault {
			continue
		}

		if spec.implicitDefault {
			b := p.binding(spec)
			if spec.Kind == Array && b.Map == nil && b.List == nil {
				b.List = []string{}
			}
			continue
		}

		if err := p.parseAndBind(spec, spec.Default, false); err != nil {
			p.fatal(err)

			return
		}
	}
}

// reconcileVerbosity propagates whichever of the two built-in verbosity
// controls was set to the other. When both were given, the later invocation
// wins. Echoes are refreshed only on bindings which were actually invoked -
// a synthesized counterpart stays silent. A disagreement afterwards cannot
// be produced by any input and is reported as an internal error.
func (p *Parser) reconcileVerbosity() {
	verbose := p.bindings[ControlVerbose]
	debug := p.bindings[ControlDebug]

	verboseInvoked := verbose != nil && verbose.Invoked
	debugInvoked := debug != nil && debug.Invoked

	switch {
	case verboseInvoked && (!debugInvoked || verbose.seq > debug.seq):
		if debug == nil {
			debug = &Binding{Kind: Integer}
			p.bindings[ControlDebug] = debug
		}
		debug.Int = verbose.Int
		if debugInvoked {
			debug.Echo = "--debug " + strconv.FormatInt(debug.Int, 10)
		}
	case debugInvoked:
		if verbose == nil {
			verbose = &Binding{Kind: Counter}
			p.bindings[ControlVerbose] = verbose
		}
		verbose.Int = debug.Int
		if verboseInvoked {
			verbose.Echo = "-v"
		}
	}

	if verbose != nil && debug != nil && verbose.Int != debug.Int {
		err := wrapf(ErrTypeValidation, "verbosity reconciliation mismatch (%d != %d)", verbose.Int, debug.Int)
		p.addError(err)
		p.terminate(err.Error(), exitInternal)
	}
}

// triggerReserved reacts to the two self-terminating reserved options.
func (p *Parser) triggerReserved(spec *OptionSpec) {
	switch spec.Control {
	case ControlHelp:
		p.PrintUsage(p.stdout)
		p.terminate("", 0)
	case ControlVersion:
		p.PrintVersion(p.stdout)
		p.terminate("", 0)
	}
}

// renderBinding produces the canonical string form consumed by the Get
// accessors and the conversion helpers.
func renderBinding(b *Binding) string {
	switch b.Kind {
	case Bool:
		return strconv.FormatBool(b.Bool)
	case Counter, Integer:
		return strconv.FormatInt(b.Int, 10)
	case Array:
		if b.Map != nil {
			parts := make([]string, 0, b.Map.Count())
			for e := b.Map.Front(); e != nil; e = e.Next() {
				parts = append(parts, e.Key()+":"+e.Value())
			}

			return strings.Join(parts, ",")
		}

		return strings.Join(b.List, ",")
	default:
		return b.Str
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}

func pruneExecPathFromArgs(args *[]string) {
	if len(*args) > 0 {
		if filepath.Base(os.Args[0]) == filepath.Base((*args)[0]) {
			*args = (*args)[1:]
		}
	}
}

func progName() string {
	return filepath.Base(os.Args[0])
}
