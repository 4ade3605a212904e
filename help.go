package optab

import (
	"fmt"
	"io"
	"strings"
)

// PrintUsage pretty prints the option table to writer in declaration order,
// reserved options first.
func (p *Parser) PrintUsage(writer io.Writer) {
	fmt.Fprintf(writer, "usage: %s [options] [--] [arguments]\n\noptions:\n", progName())

	for e := p.specs.Front(); e != nil; e = e.Next() {
		spec := e.Value()
		fmt.Fprintf(writer, "  %s%s\n", strings.Join(spec.Aliases, ", "), describeValue(spec))
		if spec.Description != "" {
			fmt.Fprintf(writer, "      %s\n", spec.Description)
		}
	}
}

// PrintVersion writes the configured version message.
func (p *Parser) PrintVersion(writer io.Writer) {
	if p.version != "" {
		fmt.Fprintln(writer, p.version)
	}
}

func describeValue(spec *OptionSpec) string {
	var sb strings.Builder

	switch spec.Kind {
	case Bool, Counter:
	default:
		sb.WriteString(" <")
		sb.WriteString(spec.Kind.String())
		sb.WriteString(">")
	}

	if spec.Kind == Integer && spec.Range != nil {
		fmt.Fprintf(&sb, " (range %s)", spec.Range)
	}
	if len(spec.Enum) > 0 {
		fmt.Fprintf(&sb, " (one of %s)", strings.Join(spec.Enum, ", "))
	}
	if spec.HasDefault && !spec.implicitDefault {
		fmt.Fprintf(&sb, " (default %s)", spec.Default)
	}

	return sb.String()
}
