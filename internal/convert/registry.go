package convert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ehr/cdafhir/internal/fhir"
)

// maxIDLen bounds a resource id per the target identifier grammar
// ([A-Za-z0-9.-]{1,64}).
const maxIDLen = 64

// Link is one recorded reference edge between two resources.
type Link struct {
	From fhir.Key
	To   fhir.Key
}

// Registry synthesizes stable resource ids and tracks every reference edge
// emitted during one document conversion. It is scoped to a single document:
// construct, use, Close, discard.
type Registry struct {
	defined map[fhir.Key]struct{}
	refs    []Link
}

func NewRegistry() *Registry {
	return &Registry{defined: make(map[fhir.Key]struct{})}
}

// GenerateID synthesizes a resource id from a source instance identifier.
// A usable extension wins; otherwise the root (qualified by the extension
// when one is present) is hashed; otherwise the caller-supplied seed is
// hashed. Hashing is name-based UUID generation, so identical inputs yield
// identical ids across runs.
func (r *Registry) GenerateID(resourceType, root, extension, seed string) string {
	if id := cleanID(extension); id != "" {
		return id
	}
	if root != "" {
		name := root
		if extension != "" {
			name += "|" + extension
		}
		return hashID(resourceType, name)
	}
	return hashID(resourceType, seed)
}

// Register records that the resource's key now exists in the bundle.
// Registering the same key twice is a no-op.
func (r *Registry) Register(res fhir.Resource) {
	r.defined[res.Key()] = struct{}{}
}

// Unregister withdraws a key, typically because validation rejected the
// resource. Edges pointing at the key become dangling and surface at Close,
// so a withdrawn resource that something still references fails the
// conversion instead of leaving a broken link in the output.
func (r *Registry) Unregister(key fhir.Key) {
	delete(r.defined, key)
}

// Reference records an edge between two resources and returns the reference
// value to embed in the referencing one. The target does not need to be
// registered yet; Close settles all recorded edges.
func (r *Registry) Reference(from, to fhir.Key) *fhir.Reference {
	r.refs = append(r.refs, Link{From: from, To: to})
	return &fhir.Reference{Reference: to.String()}
}

// Close verifies reference closure: every recorded edge must point at a
// registered resource. It returns one error per dangling edge, naming the
// referencing resource and the missing target, in the order the edges were
// recorded.
func (r *Registry) Close() []*Error {
	var errs []*Error
	seen := make(map[Link]struct{})
	for _, l := range r.refs {
		if _, ok := r.defined[l.To]; ok {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		errs = append(errs, &Error{
			Kind:   UnresolvedReference,
			Detail: fmt.Sprintf("%s refers to %s, which is not in the bundle", l.From, l.To),
		})
	}
	return errs
}

func hashID(resourceType, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(resourceType+"/"+name)).String()
}

// cleanID reduces a candidate to the id grammar: letters, digits, '-' and
// '.', at most 64 characters. Each run of other characters collapses to a
// single '-'. Returns "" when nothing usable remains, which sends GenerateID
// to the next priority.
func cleanID(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, c := range s {
		valid := c >= 'A' && c <= 'Z' ||
			c >= 'a' && c <= 'z' ||
			c >= '0' && c <= '9' ||
			c == '.' || c == '-'
		if !valid {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(c)
	}
	id := b.String()
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}
	return id
}
