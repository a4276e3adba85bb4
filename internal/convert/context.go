package convert

import (
	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

// Vocabulary resolves source vocabulary identifiers into their target
// equivalents. A false result is an expected outcome converters handle with
// a documented fallback or a recorded error, never by guessing.
type Vocabulary interface {
	// SystemURI maps a code system OID to its canonical URI.
	SystemURI(oid string) (string, bool)
	// StatusCode maps a source act status into the value set for domain.
	StatusCode(domain terminology.StatusDomain, code string) (string, bool)
}

// DefaultVocabulary serves lookups from the built-in tables. The system
// mapper is pluggable so a remote overlay can shadow individual OIDs.
type DefaultVocabulary struct {
	Systems terminology.Mapper
}

func (v DefaultVocabulary) SystemURI(oid string) (string, bool) {
	return v.Systems.SystemURI(oid)
}

func (v DefaultVocabulary) StatusCode(domain terminology.StatusDomain, code string) (string, bool) {
	return terminology.StatusCode(domain, code)
}

// DocumentScope holds the document-level facts every converter needs: the
// subject's key, the header author's key, and the document timestamp.
type DocumentScope struct {
	SubjectKey fhir.Key
	// AuthorKey is the first person author from the header, zero when the
	// header names none. Converters fall back to it when an entry carries
	// no usable performer.
	AuthorKey fhir.Key
	// EffectiveTime is the document timestamp in target form, "" when the
	// header carries none.
	EffectiveTime string
}

// SectionContext is the coded identity of the section an entry was found in,
// linked to its ancestors for nested sections. Converters use it to
// distinguish two uses of the same entry shape.
type SectionContext struct {
	Code   string // section identity code, e.g. "11450-4"
	Coded  *cda.Code
	Title  string
	Parent *SectionContext
}

// Context is handed into every converter invocation. The walker copies it
// per entry so Path always locates the entry being converted; everything
// else is shared across the document.
type Context struct {
	Doc      *DocumentScope
	Section  *SectionContext
	Registry *Registry
	Vocab    Vocabulary
	Log      zerolog.Logger
	Path     string
}

// SubjectRef records and returns a reference from the given resource to the
// document subject.
func (c *Context) SubjectRef(from fhir.Key) *fhir.Reference {
	return c.Registry.Reference(from, c.Doc.SubjectKey)
}

// AuthorRef records and returns a reference from the given resource to the
// header author, or nil when the header names none.
func (c *Context) AuthorRef(from fhir.Key) *fhir.Reference {
	if c.Doc.AuthorKey == (fhir.Key{}) {
		return nil
	}
	return c.Registry.Reference(from, c.Doc.AuthorKey)
}
