package convert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

// humanName maps a person name part by part.
func humanName(n cda.Name) fhir.HumanName {
	name := fhir.HumanName{
		Family: n.Family,
		Given:  n.Givens,
		Prefix: n.Prefixes,
		Suffix: n.Suffixes,
	}
	switch n.Use {
	case "L":
		name.Use = "official"
	case "P":
		name.Use = "nickname"
	}
	return name
}

func humanNames(names []cda.Name) []fhir.HumanName {
	var out []fhir.HumanName
	for _, n := range names {
		if n.Family == "" && len(n.Givens) == 0 {
			continue
		}
		out = append(out, humanName(n))
	}
	return out
}

func addressOf(a cda.Address) fhir.Address {
	addr := fhir.Address{
		Line:       a.StreetLines,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
	switch a.Use {
	case "HP", "H":
		addr.Use = "home"
	case "WP":
		addr.Use = "work"
	}
	return addr
}

func addressesOf(addrs []cda.Address) []fhir.Address {
	var out []fhir.Address
	for _, a := range addrs {
		if len(a.StreetLines) == 0 && a.City == "" && a.PostalCode == "" {
			continue
		}
		out = append(out, addressOf(a))
	}
	return out
}

func contactPointOf(t cda.Telecom) fhir.ContactPoint {
	cp := fhir.ContactPoint{Value: t.Value}
	switch {
	case strings.HasPrefix(t.Value, "tel:"):
		cp.System = "phone"
		cp.Value = strings.TrimPrefix(t.Value, "tel:")
	case strings.HasPrefix(t.Value, "mailto:"):
		cp.System = "email"
		cp.Value = strings.TrimPrefix(t.Value, "mailto:")
	case strings.HasPrefix(t.Value, "fax:"):
		cp.System = "fax"
		cp.Value = strings.TrimPrefix(t.Value, "fax:")
	}
	switch t.Use {
	case "HP", "H":
		cp.Use = "home"
	case "WP":
		cp.Use = "work"
	case "MC":
		cp.Use = "mobile"
	}
	return cp
}

func contactPointsOf(telecoms []cda.Telecom) []fhir.ContactPoint {
	var out []fhir.ContactPoint
	for _, t := range telecoms {
		if t.Value == "" {
			continue
		}
		out = append(out, contactPointOf(t))
	}
	return out
}

// identifierOf renders an instance identifier. An OID root scoping an
// extension becomes a URN system; a bare root is itself the value.
func identifierOf(id cda.InstanceID) fhir.Identifier {
	if id.Extension != "" {
		ident := fhir.Identifier{Value: id.Extension}
		if id.Root != "" {
			ident.System = rootURN(id.Root)
		}
		return ident
	}
	if id.Root != "" {
		return fhir.Identifier{Value: rootURN(id.Root)}
	}
	return fhir.Identifier{}
}

func identifiersOf(ids []cda.InstanceID) []fhir.Identifier {
	var out []fhir.Identifier
	for _, id := range ids {
		if id.NullFlavor != "" {
			continue
		}
		if ident := identifierOf(id); ident.Value != "" {
			out = append(out, ident)
		}
	}
	return out
}

// rootURN renders an II root as a URN, recognizing UUID-shaped roots.
func rootURN(root string) string {
	if _, err := uuid.Parse(root); err == nil && strings.Count(root, "-") == 4 {
		return "urn:uuid:" + strings.ToLower(root)
	}
	return "urn:oid:" + root
}

// firstID returns the first usable instance identifier's root and extension.
func firstID(ids []cda.InstanceID) (root, extension string) {
	for _, id := range ids {
		if id.NullFlavor != "" {
			continue
		}
		if id.Root != "" || id.Extension != "" {
			return id.Root, id.Extension
		}
	}
	return "", ""
}

// PractitionerOf builds a performer resource from an assigned entity. The
// second return is false when the entity carries nothing identifiable.
func PractitionerOf(ctx *Context, ae *cda.AssignedEntity, seed string) (*fhir.Practitioner, bool) {
	if ae == nil {
		return nil, false
	}
	var names []fhir.HumanName
	if ae.AssignedPerson != nil {
		names = humanNames(ae.AssignedPerson.Names)
	}
	ids := identifiersOf(ae.IDs)
	if len(names) == 0 && len(ids) == 0 {
		return nil, false
	}

	root, ext := firstID(ae.IDs)
	return &fhir.Practitioner{
		ID:         ctx.Registry.GenerateID("Practitioner", root, ext, seed),
		Identifier: ids,
		Name:       names,
		Telecom:    contactPointsOf(ae.Telecoms),
		Address:    addressesOf(ae.Addrs),
	}, true
}

// PractitionerFromAuthor builds a resource for a person author. Device
// authors yield false; they are not practitioners.
func PractitionerFromAuthor(ctx *Context, a *cda.Author, seed string) (*fhir.Practitioner, bool) {
	aa := a.AssignedAuthor
	if aa == nil || aa.AssignedPerson == nil {
		return nil, false
	}
	names := humanNames(aa.AssignedPerson.Names)
	ids := identifiersOf(aa.IDs)
	if len(names) == 0 && len(ids) == 0 {
		return nil, false
	}

	root, ext := firstID(aa.IDs)
	return &fhir.Practitioner{
		ID:         ctx.Registry.GenerateID("Practitioner", root, ext, seed),
		Identifier: ids,
		Name:       names,
		Telecom:    contactPointsOf(aa.Telecoms),
		Address:    addressesOf(aa.Addrs),
	}, true
}

// actorRef resolves the acting practitioner for an entry with the fixed
// priority: the first usable entry-level performer wins, then the document
// author. A performer is minted as a Practitioner resource, registered, and
// returned so the caller can append it to its output; the document-author
// fallback references the header practitioner already in the bundle. ok is
// false when neither resolves, in which case the field is omitted (never
// filled with a placeholder).
func actorRef(ctx *Context, from fhir.Key, performers []cda.Performer) (*fhir.Practitioner, *fhir.Reference, bool) {
	for i := range performers {
		seed := fmt.Sprintf("%s/performer[%d]", ctx.Path, i+1)
		if p, ok := PractitionerOf(ctx, performers[i].AssignedEntity, seed); ok {
			ctx.Registry.Register(p)
			return p, ctx.Registry.Reference(from, p.Key()), true
		}
	}
	if ref := ctx.AuthorRef(from); ref != nil {
		return nil, ref, true
	}
	return nil, nil, false
}

// authorTime returns the first author participation time in target form.
func authorTime(authors []cda.Author) string {
	for _, a := range authors {
		if a.Time == nil {
			continue
		}
		if dt, ok := FHIRDateTime(a.Time.Value); ok {
			return dt
		}
		if dt, ok := FHIRDateTime(a.Time.LowValue()); ok {
			return dt
		}
	}
	return ""
}
