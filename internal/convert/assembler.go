package convert

import (
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

// Assemble builds the document bundle: the Composition fronting the header
// and clinical resources, every entry under its relative fullUrl, in a fixed
// deterministic order. It then settles the registry; a bundle with dangling
// references is never emitted.
func Assemble(ctx *Context, doc *cda.Document, header *HeaderResources, walk *WalkResult) (*fhir.Bundle, []*Error) {
	comp := buildComposition(ctx, doc, header, walk)

	var entries []fhir.BundleEntry
	seen := map[fhir.Key]bool{}
	add := func(r fhir.Resource) {
		key := r.Key()
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, fhir.BundleEntry{FullURL: key.String(), Resource: r})
	}

	add(comp)
	add(header.Patient)
	for _, r := range header.All() {
		add(r)
	}
	for _, r := range walk.Resources {
		add(r)
	}

	if errs := ctx.Registry.Close(); len(errs) > 0 {
		return nil, errs
	}

	root, ext := documentID(doc)
	b := &fhir.Bundle{
		ID:    ctx.Registry.GenerateID("Bundle", root, ext, "document"),
		Type:  "document",
		Entry: entries,
	}
	if doc.ID != nil {
		if ident := identifierOf(*doc.ID); ident.Value != "" {
			b.Identifier = &ident
		}
	}
	// The timestamp is an instant; a date-only document effectiveTime stays
	// on the composition alone.
	if strings.ContainsRune(ctx.Doc.EffectiveTime, 'T') {
		b.Timestamp = ctx.Doc.EffectiveTime
	}
	return b, nil
}

// buildComposition assembles the document's table of contents: its coded
// type, the header participations, and one section per source section that
// produced resources, each listing what it produced in walk order.
func buildComposition(ctx *Context, doc *cda.Document, header *HeaderResources, walk *WalkResult) *fhir.Composition {
	root, ext := documentID(doc)
	comp := &fhir.Composition{
		ID:     ctx.Registry.GenerateID("Composition", root, ext, "header/composition"),
		Status: "final",
		Title:  doc.Title,
		Date:   ctx.Doc.EffectiveTime,
	}
	key := comp.Key()

	// setId survives document replacement, so it is the better identifier;
	// the document id is the fallback.
	if doc.SetID != nil {
		if ident := identifierOf(*doc.SetID); ident.Value != "" {
			comp.Identifier = &ident
		}
	}
	if comp.Identifier == nil && doc.ID != nil {
		if ident := identifierOf(*doc.ID); ident.Value != "" {
			comp.Identifier = &ident
		}
	}

	comp.Type = OptionalConcept(doc.Code, ctx.Vocab)
	if comp.Type == nil {
		comp.Type = fhir.TextConcept("Clinical Document")
	}
	if comp.Title == "" {
		comp.Title = comp.Type.Text
		if comp.Title == "" {
			comp.Title = "Clinical Document"
		}
	}
	if doc.ConfidentialityCode != nil {
		comp.Confidentiality = doc.ConfidentialityCode.Code
	}

	comp.Subject = ctx.SubjectRef(key)
	for _, a := range header.Authors {
		comp.Author = append(comp.Author, *ctx.Registry.Reference(key, a.Key()))
	}
	if header.Custodian != nil {
		comp.Custodian = ctx.Registry.Reference(key, header.Custodian.Key())
	}

	if doc.DocumentationOf != nil && doc.DocumentationOf.ServiceEvent != nil {
		if tc, ok := ResolveTime(doc.DocumentationOf.ServiceEvent.EffectiveTime); ok {
			comp.Event = []fhir.CompositionEvent{{Period: tc.PeriodValue()}}
		}
	}

	for _, out := range walk.Sections {
		section := fhir.CompositionSection{
			Title: out.Context.Title,
			Code:  OptionalConcept(out.Context.Coded, ctx.Vocab),
		}
		for _, k := range out.Keys {
			section.Entry = append(section.Entry, *ctx.Registry.Reference(key, k))
		}
		comp.Section = append(comp.Section, section)
	}

	ctx.Registry.Register(comp)
	return comp
}

func documentID(doc *cda.Document) (root, extension string) {
	if doc.ID == nil {
		return "", ""
	}
	return doc.ID.Root, doc.ID.Extension
}
