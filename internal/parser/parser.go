// Package parser defines the contract for turning one raw attendance report
// into a record plus its merge contribution, and ships the default CSV
// implementation. The pipeline depends only on the Parser interface, so a
// different export format slots in without touching the rest of the tool.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/akarlsen/rollcall/internal/domain"
)

// Result is a successful parse: the canonical record, the denormalized
// contribution used to update the index, and any non-fatal warnings the
// parser wants surfaced. Warnings pass through the pipeline unchanged.
type Result struct {
	Record       *domain.Record
	Contribution *domain.Contribution
	Warnings     []string
}

// Parser consumes a named, byte-readable source. name is used only for
// error messages.
type Parser interface {
	Parse(name string, r io.Reader) (*Result, error)
}

// ParseError reports an unparseable source as a list of human-readable
// problems. It is the only error type the default parser returns for
// content-level failures.
type ParseError struct {
	File     string
	Problems []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.File, strings.Join(e.Problems, "; "))
}
