package convert

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a conversion failure. Per-entry kinds are recovered
// by the walker (the entry is skipped, the walk continues); structural kinds
// abort the whole conversion.
type ErrorKind string

const (
	MissingRequiredField ErrorKind = "missing-required-field"
	UnmappableCode       ErrorKind = "unmappable-code"
	UnresolvedReference  ErrorKind = "unresolved-reference"
	MalformedStructure   ErrorKind = "malformed-structure"
	InvariantViolation   ErrorKind = "invariant-violation"
)

// Error is a typed conversion failure carrying enough context to locate the
// offending source entry.
type Error struct {
	Kind    ErrorKind
	Concept string // converter concept, e.g. "problem-observation"
	Path    string // source location, e.g. "problems[11450-4]/entry[2]"
	Detail  string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Concept != "" {
		b.WriteString(": ")
		b.WriteString(e.Concept)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	return b.String()
}

// Fatal reports whether the error aborts the walk instead of skipping one
// entry. Reference-closure errors are handled separately by the assembler,
// where they are always fatal.
func (e *Error) Fatal() bool {
	return e.Kind == MalformedStructure || e.Kind == InvariantViolation
}

// Errors bundles several conversion failures into one error value, for the
// stages where failures arrive in batches (closure checks, strict mode).
type Errors []*Error

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d conversion errors: %s", len(e), strings.Join(parts, "; "))
}

func errMissing(ctx *Context, concept, field string) *Error {
	return &Error{
		Kind:    MissingRequiredField,
		Concept: concept,
		Path:    ctx.Path,
		Detail:  fmt.Sprintf("required field %q is absent", field),
	}
}

func errUnmappable(ctx *Context, concept string, cause error) *Error {
	return &Error{
		Kind:    UnmappableCode,
		Concept: concept,
		Path:    ctx.Path,
		Detail:  cause.Error(),
	}
}

func errMalformed(ctx *Context, concept, detail string) *Error {
	return &Error{
		Kind:    MalformedStructure,
		Concept: concept,
		Path:    ctx.Path,
		Detail:  detail,
	}
}
