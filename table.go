package optab

import (
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// reserved option table. The version entry is added separately when a
// version message has been configured.
var reservedSpecs = []struct {
	aliases     string
	literal     string
	description string
}{
	{"-h,--help", "b-" + ControlHelp, "display usage and exit"},
	{"-n,--dry-run", "b-" + ControlDryRun, "report what would be done without doing it"},
	{"-v,--verbose", "c-" + ControlVerbose, "increase verbosity (repeatable)"},
	{"--debug", "i-" + ControlDebug + "::0:", "set the verbosity level directly"},
	{"--time-tag", "s-" + ControlTimeTag, "timestamp layout for emitted messages"},
}

func (p *Parser) registerReserved() {
	for _, r := range reservedSpecs {
		// reserved literals are static and compile by construction
		_ = p.addSpec(r.aliases, r.literal, r.description, true)
	}
}

func (p *Parser) registerVersion() error {
	return p.addSpec("-V,--version", "b-"+ControlVersion, "print the version message and exit", true)
}

// AddSpec compiles the spec literal for one alias group and merges it into
// the option table. Alias groups are comma-separated spellings, each starting
// with '-' or '--', at least one of them long. Literals have the shape
//
//	kind-CONTROL[:DEFAULT[::RESTRICTION]]
//
// where kind is one of b/c/i/s/a/e (Bool, Counter, Integer, String, Array,
// Extend); a missing kind prefix means String. The restriction is an integer
// range ("0:10", "0:", ":10", legacy "0-10") for Integer and Bool, or a
// comma-separated enumeration for String.
func (p *Parser) AddSpec(aliasGroup, literal, description string) error {
	return p.addSpec(aliasGroup, literal, description, false)
}

// AddSpecs merges a whole specification table at once: a mapping from alias
// group to spec literal plus a parallel mapping from alias group to
// description. Groups are added in sorted order so the table layout is
// deterministic.
func (p *Parser) AddSpecs(literals map[string]string, descriptions map[string]string) error {
	groups := make([]string, 0, len(literals))
	for g := range literals {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		if err := p.addSpec(g, literals[g], descriptions[g], false); err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) addSpec(aliasGroup, literal, description string, reserved bool) error {
	aliases, err := splitAliasGroup(aliasGroup)
	if err != nil {
		return err
	}

	spec, err := compileSpecLiteral(literal)
	if err != nil {
		return err
	}
	spec.Aliases = aliases
	spec.Description = description
	spec.reserved = reserved

	if err := p.checkConflicts(spec); err != nil {
		return err
	}

	p.specs.Set(spec.Control, spec)
	for _, a := range aliases {
		p.lookup[a] = spec.Control
	}

	return nil
}

func splitAliasGroup(aliasGroup string) ([]string, error) {
	parts := strings.Split(aliasGroup, ",")
	aliases := make([]string, 0, len(parts))
	hasLong := false

	for _, a := range parts {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if !strings.HasPrefix(a, "-") {
			return nil, wrapf(ErrSpecConflict, "alias %q must start with '-'", a)
		}
		if strings.TrimLeft(a, "-") == "" {
			return nil, wrapf(ErrSpecConflict, "alias %q has no name", a)
		}
		if strings.HasPrefix(a, "--") {
			hasLong = true
		}
		aliases = append(aliases, a)
	}

	if len(aliases) == 0 {
		return nil, wrapf(ErrSpecConflict, "empty alias group")
	}
	if !hasLong {
		return nil, wrapf(ErrSpecConflict, "alias group %q has no long form", aliasGroup)
	}

	return aliases, nil
}

// compileSpecLiteral turns a raw spec literal into a partially filled
// OptionSpec (aliases and description are the caller's business).
func compileSpecLiteral(literal string) (*OptionSpec, error) {
	head, restriction, hasRestriction := strings.Cut(literal, "::")
	name, def, hasDefault := strings.Cut(head, ":")

	spec := &OptionSpec{Kind: String}
	if len(name) > 1 && name[1] == '-' {
		kind, known := kindTags[name[0]]
		if !known {
			return nil, wrapf(ErrSpecConflict, "unknown type tag %q in literal %q", string(name[0]), literal)
		}
		spec.Kind = kind
		spec.Control = name[2:]
	} else {
		spec.Control = name
	}

	if spec.Control == "" {
		return nil, wrapf(ErrSpecConflict, "literal %q has no control name", literal)
	}

	spec.Default = def
	spec.HasDefault = hasDefault

	if hasRestriction {
		if err := spec.setRestriction(restriction); err != nil {
			return nil, err
		}
	}
	spec.applyImplicits()

	if err := spec.checkDefault(); err != nil {
		return nil, err
	}

	return spec, nil
}

func (o *OptionSpec) setRestriction(restriction string) error {
	switch o.Kind {
	case Integer, Bool:
		r, err := parseIntegerRange(restriction)
		if err != nil {
			return err
		}
		o.Range = r
	case String:
		o.Enum = strings.Split(restriction, ",")
	default:
		return wrapf(ErrSpecConflict, "restriction %q not allowed for %s option %s", restriction, o.Kind, o.Control)
	}

	return nil
}

// applyImplicits fills the defaults the literal grammar leaves implicit:
// Bool is range-restricted to [0,1] and defaults to false, the stringish
// kinds default to the empty value.
func (o *OptionSpec) applyImplicits() {
	switch o.Kind {
	case Bool:
		if o.Range == nil {
			zero, one := int64(0), int64(1)
			o.Range = &IntegerRange{Low: &zero, High: &one}
		}
		if !o.HasDefault {
			o.Default = "false"
			o.HasDefault = true
			o.implicitDefault = true
		}
	case String, Array, Extend:
		if !o.HasDefault {
			o.HasDefault = true
			o.implicitDefault = true
		}
	}
}

// checkDefault enforces type compatibility of the declared default literal.
// Range and enumeration checks run later, through the regular validation
// path of the defaulting pass.
func (o *OptionSpec) checkDefault() error {
	if !o.HasDefault || o.implicitDefault {
		return nil
	}

	switch o.Kind {
	case Bool:
		if _, err := strconv.ParseBool(o.Default); err != nil {
			return wrapf(ErrSpecConflict, "default %q of %s is not a bool", o.Default, o.Control)
		}
	case Counter:
		return wrapf(ErrSpecConflict, "counter %s cannot declare a default", o.Control)
	case Integer:
		if _, err := strconv.ParseInt(o.Default, 10, 64); err != nil {
			return wrapf(ErrSpecConflict, "default %q of %s is not an integer", o.Default, o.Control)
		}
	}

	return nil
}

// checkConflicts guards the merged-table invariants: control names unique,
// alias sets pairwise disjoint, and the control name distinguishable from
// the display form derived from its long alias - value slot and echo slot
// must stay independently addressable.
func (p *Parser) checkConflicts(spec *OptionSpec) error {
	if p.specs.Has(spec.Control) {
		return wrapf(ErrSpecConflict, "duplicate control name %s", spec.Control)
	}

	for _, a := range spec.Aliases {
		if control, taken := p.lookup[a]; taken {
			owner, _ := p.specs.Get(control)
			if owner != nil && owner.reserved {
				return wrapf(ErrSpecConflict, "alias %s is reserved", a)
			}

			return wrapf(ErrSpecConflict, "alias %s already bound to %s", a, control)
		}
	}

	display := strcase.ToLowerCamel(strings.TrimLeft(spec.LongAlias(), "-"))
	if spec.Control == display {
		return wrapf(ErrSpecConflict, "control name %s is indistinguishable from display form %q", spec.Control, display)
	}

	return nil
}

// parseIntegerRange accepts the colon form "lo:hi" where an empty side is
// unbounded, and the legacy dash form "lo-hi" which allows neither sentinels
// nor negative bounds. The two forms are deliberately not unified.
func parseIntegerRange(restriction string) (*IntegerRange, error) {
	if strings.Contains(restriction, ":") {
		loRaw, hiRaw, _ := strings.Cut(restriction, ":")

		r := &IntegerRange{}
		if loRaw != "" {
			lo, err := strconv.ParseInt(loRaw, 10, 64)
			if err != nil {
				return nil, wrapf(ErrSpecConflict, "bad lower bound %q", loRaw)
			}
			r.Low = &lo
		}
		if hiRaw != "" {
			hi, err := strconv.ParseInt(hiRaw, 10, 64)
			if err != nil {
				return nil, wrapf(ErrSpecConflict, "bad upper bound %q", hiRaw)
			}
			r.High = &hi
		}
		if r.Low != nil && r.High != nil && *r.Low > *r.High {
			return nil, wrapf(ErrSpecConflict, "empty range %q", restriction)
		}

		return r, nil
	}

	return parseLegacyRange(restriction)
}

func parseLegacyRange(restriction string) (*IntegerRange, error) {
	loRaw, hiRaw, found := strings.Cut(restriction, "-")
	if !found || loRaw == "" || hiRaw == "" {
		return nil, wrapf(ErrSpecConflict, "bad range %q", restriction)
	}

	lo, err := strconv.ParseUint(loRaw, 10, 63)
	if err != nil {
		return nil, wrapf(ErrSpecConflict, "bad lower bound %q", loRaw)
	}
	hi, err := strconv.ParseUint(hiRaw, 10, 63)
	if err != nil {
		return nil, wrapf(ErrSpecConflict, "bad upper bound %q", hiRaw)
	}
	if lo > hi {
		return nil, wrapf(ErrSpecConflict, "empty range %q", restriction)
	}

	low, high := int64(lo), int64(hi)

	return &IntegerRange{Low: &low, High: &high}, nil
}
