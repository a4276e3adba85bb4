package convert

import (
	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

// ResourceValidator checks one converted resource against the target
// schema's structural rules. A nil validator means no validation.
type ResourceValidator interface {
	Validate(r fhir.Resource) error
}

// Options configure one conversion. The zero value converts leniently with
// the built-in vocabulary and no validation.
type Options struct {
	// Vocab overrides the built-in vocabulary tables.
	Vocab Vocabulary
	// Validator, when set, checks every converted clinical resource.
	Validator ResourceValidator
	// Strict turns any recorded issue into a conversion failure. Lenient
	// conversions return the partial bundle together with the issues.
	Strict bool
	// Logger receives walk diagnostics. Defaults to a disabled logger.
	Logger zerolog.Logger
}

// Result is a completed conversion: the document bundle plus the recoverable
// issues recorded along the way.
type Result struct {
	Bundle *fhir.Bundle
	Issues []*Error
}

// Convert translates one parsed document into a reference-closed document
// bundle. Each call owns its registry, so documents may be converted
// concurrently. Conversion is deterministic: the same document yields the
// same bundle, byte for byte.
func Convert(doc *cda.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, &Error{Kind: MalformedStructure, Concept: "document", Detail: "document is nil"}
	}

	vocab := opts.Vocab
	if vocab == nil {
		vocab = DefaultVocabulary{Systems: terminology.Default()}
	}

	scope := &DocumentScope{}
	if doc.EffectiveTime != nil {
		if dt, ok := FHIRDateTime(doc.EffectiveTime.Value); ok {
			scope.EffectiveTime = dt
		}
	}

	ctx := &Context{
		Doc:      scope,
		Registry: NewRegistry(),
		Vocab:    vocab,
		Log:      opts.Logger,
		Path:     "header",
	}

	header, cerr := BuildHeader(ctx, doc)
	if cerr != nil {
		return nil, cerr
	}

	walk, err := Walk(ctx, doc.Body())
	if err != nil {
		return nil, err
	}

	if opts.Validator != nil {
		dropInvalid(ctx, opts.Validator, walk)
	}
	if opts.Strict && len(walk.Issues) > 0 {
		return nil, Errors(walk.Issues)
	}

	bundle, cerrs := Assemble(ctx, doc, header, walk)
	if len(cerrs) > 0 {
		return nil, Errors(cerrs)
	}
	return &Result{Bundle: bundle, Issues: walk.Issues}, nil
}

// dropInvalid removes resources the validator rejects, recording one issue
// each. Removal happens before assembly so the closure check judges the
// final resource set: a rejected resource that something else references
// fails the conversion rather than leaving a dangling link in the output.
func dropInvalid(ctx *Context, v ResourceValidator, walk *WalkResult) {
	dropped := make(map[fhir.Key]bool)
	kept := walk.Resources[:0]
	for _, r := range walk.Resources {
		verr := v.Validate(r)
		if verr == nil {
			kept = append(kept, r)
			continue
		}
		key := r.Key()
		dropped[key] = true
		ctx.Registry.Unregister(key)
		walk.Issues = append(walk.Issues, &Error{
			Kind:    InvariantViolation,
			Concept: r.ResourceType(),
			Path:    key.String(),
			Detail:  verr.Error(),
		})
	}
	walk.Resources = kept
	if len(dropped) == 0 {
		return
	}
	for i := range walk.Sections {
		keys := walk.Sections[i].Keys[:0]
		for _, k := range walk.Sections[i].Keys {
			if !dropped[k] {
				keys = append(keys, k)
			}
		}
		walk.Sections[i].Keys = keys
	}
}
