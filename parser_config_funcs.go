package optab

import "io"

// NewParserWith allows initialization of a Parser using option functions. The
// caller should always test for error on return because the Parser will be
// nil when an error occurs during initialization.
//
// Configuration example:
//
//	parser, err := NewParserWith(
//		WithVersion("frob 1.4.2"),
//		WithSpec("-t,--ticker", "i-TICKER:5::0:60", "poll interval in seconds"),
//		WithSpec("-m,--mode", "s-MODE:fast::fast,slow", "execution mode"),
//		WithDepthCharge(true))
func NewParserWith(configs ...ConfigureParserFunc) (*Parser, error) {
	parser := NewParser()

	var err error
	for _, config := range configs {
		config(parser, &err)
		if err != nil {
			return nil, err
		}
	}

	return parser, nil
}

// WithSpec is a wrapper for AddSpec which compiles one spec literal into the
// option table.
func WithSpec(aliasGroup, literal, description string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		*err = p.AddSpec(aliasGroup, literal, description)
	}
}

// WithSpecs is a wrapper for AddSpecs which merges a whole specification
// table: alias group to spec literal, plus the parallel description mapping.
func WithSpecs(literals map[string]string, descriptions map[string]string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		*err = p.AddSpecs(literals, descriptions)
	}
}

// WithVersion configures the version message and registers the reserved
// "-V, --version" option.
func WithVersion(version string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		*err = p.SetVersion(version)
	}
}

// WithDepthCharge enables unrecognized-option tolerance: unresolved options
// are captured verbatim instead of failing the parse.
func WithDepthCharge(enabled bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.SetDepthCharge(enabled)
	}
}

// WithStrictAliases disables abbreviation matching.
func WithStrictAliases(strict bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.SetStrictAliases(strict)
	}
}

// WithFailHandler replaces the process-terminating default fail handler.
func WithFailHandler(handler FailFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.SetFailHandler(handler)
	}
}

// WithAuditFile configures the append-only invocation log.
func WithAuditFile(path string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.SetAuditFile(path)
	}
}

// WithOutput redirects usage/version output and diagnostics.
func WithOutput(stdout, stderr io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.SetOutput(stdout, stderr)
	}
}
