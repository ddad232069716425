package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/akarlsen/rollcall/internal/domain"
	"github.com/akarlsen/rollcall/internal/parser"
)

// BuildResult is the outcome of building one file. Exactly one of the two
// shapes applies: OK with a record and contribution, or not-OK with errors.
// Either way File names the source and Warnings may be present.
type BuildResult struct {
	File         string
	OK           bool
	Record       *domain.Record
	Contribution *domain.Contribution
	Warnings     []string
	Errors       []string
}

// Builder adapts raw files onto the external parser.
type Builder struct {
	parser parser.Parser
}

// NewBuilder creates a Builder that delegates to p.
func NewBuilder(p parser.Parser) *Builder {
	return &Builder{parser: p}
}

// Build reads the referenced file and parses it. Read failures (the file
// vanished or lost read permission between discovery and now) come back as
// errors tagged with the file name, the same as parse failures; a single
// bad file never aborts the batch. Parser warnings pass through unchanged.
func (b *Builder) Build(ref FileRef) *BuildResult {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return &BuildResult{
			File:   ref.Name,
			Errors: []string{fmt.Sprintf("reading %s: %v", ref.Name, err)},
		}
	}

	result, err := b.parser.Parse(ref.Name, bytes.NewReader(data))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return &BuildResult{File: ref.Name, Errors: perr.Problems}
		}
		return &BuildResult{File: ref.Name, Errors: []string{err.Error()}}
	}

	return &BuildResult{
		File:         ref.Name,
		OK:           true,
		Record:       result.Record,
		Contribution: result.Contribution,
		Warnings:     result.Warnings,
	}
}
