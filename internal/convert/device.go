package convert

import (
	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

const conceptDeviceSupply = "device-supply"

// convertDeviceSupply converts a non-medicinal supply activity into a
// Device. The device participant's code identifies what was supplied; the
// product instance ids, when present, become the device identifiers.
func convertDeviceSupply(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	sup := entry.Supply
	if sup == nil {
		return nil, errMalformed(ctx, conceptDeviceSupply, "supply entry is not a supply")
	}

	cc, err := CodeConcept(sup.DeviceCode(), ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptDeviceSupply, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptDeviceSupply, "device code")
	}

	ids := deviceInstanceIDs(sup)
	root, ext := firstID(ids)
	if root == "" {
		root, ext = firstID(sup.IDs)
	}
	id := ctx.Registry.GenerateID("Device", root, ext, ctx.Path)
	key := fhir.Key{Type: "Device", ID: id}

	d := &fhir.Device{
		ID:         id,
		Identifier: identifiersOf(ids),
		Status:     "active",
		Type:       cc,
	}
	if len(d.Identifier) == 0 {
		d.Identifier = identifiersOf(sup.IDs)
	}
	d.Patient = ctx.SubjectRef(key)

	ctx.Registry.Register(d)
	return []fhir.Resource{d}, nil
}

// deviceInstanceIDs returns the ids of the device participant role (the
// product instance), which identify the physical device rather than the
// supply event.
func deviceInstanceIDs(sup *cda.Supply) []cda.InstanceID {
	for _, p := range sup.Participants {
		if p.ParticipantRole != nil && p.ParticipantRole.PlayingDevice != nil {
			return p.ParticipantRole.IDs
		}
	}
	return nil
}
