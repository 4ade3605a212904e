package optab

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/napalu/optab/util"
)

// appendAudit records the reconstructed invocation of a successful parse as
// one line in the configured audit file: timestamp, echoes of every invoked
// option in table order, then the positional arguments. The write is a
// single append - no coordination beyond the platform's append semantics.
func (p *Parser) appendAudit() error {
	line := p.auditLine(time.Now())

	f, err := os.OpenFile(p.auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return err
	}

	return nil
}

func (p *Parser) auditLine(at time.Time) string {
	layout := time.RFC3339
	if tag, found := p.Get(ControlTimeTag); found && tag != "" {
		layout = tag
	}

	parts := []string{at.Format(layout), progName()}
	for e := p.specs.Front(); e != nil; e = e.Next() {
		spec := e.Value()
		if b, found := p.bindings[spec.Control]; found && b.Invoked && b.Echo != "" {
			parts = append(parts, b.Echo)
		}
	}
	for _, pos := range p.positionalArgs {
		parts = append(parts, util.QuoteIfNeeded(pos.Value))
	}

	return strings.Join(parts, " ")
}
