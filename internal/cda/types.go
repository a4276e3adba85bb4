package cda

import "encoding/xml"

// Document is the root element of a CDA R2 clinical document.
type Document struct {
	XMLName             xml.Name         `xml:"urn:hl7-org:v3 ClinicalDocument"`
	RealmCode           *Code            `xml:"realmCode"`
	TypeID              *TypeID          `xml:"typeId"`
	TemplateIDs         []TemplateID     `xml:"templateId"`
	ID                  *InstanceID      `xml:"id"`
	Code                *Code            `xml:"code"`
	Title               string           `xml:"title"`
	EffectiveTime       *Time            `xml:"effectiveTime"`
	ConfidentialityCode *Code            `xml:"confidentialityCode"`
	LanguageCode        *Code            `xml:"languageCode"`
	SetID               *InstanceID      `xml:"setId"`
	RecordTarget        *RecordTarget    `xml:"recordTarget"`
	Authors             []Author         `xml:"author"`
	Custodian           *Custodian       `xml:"custodian"`
	DocumentationOf     *DocumentationOf `xml:"documentationOf"`
	Component           *Component       `xml:"component"`
}

// Body returns the top-level sections of the structured body, skipping
// empty component wrappers.
func (d *Document) Body() []*Section {
	if d.Component == nil || d.Component.StructuredBody == nil {
		return nil
	}
	var sections []*Section
	for _, comp := range d.Component.StructuredBody.Components {
		if comp.Section != nil {
			sections = append(sections, comp.Section)
		}
	}
	return sections
}

// TypeID identifies the CDA R2 schema.
type TypeID struct {
	Root      string `xml:"root,attr"`
	Extension string `xml:"extension,attr"`
}

// TemplateID tags an element with the template that governs its meaning.
// Template roots are the only discriminator between clinical concepts that
// share an element shape.
type TemplateID struct {
	Root      string `xml:"root,attr"`
	Extension string `xml:"extension,attr"`
}

// InstanceID is an instance identifier (II): an OID root plus an optional
// extension scoped to that root.
type InstanceID struct {
	Root       string `xml:"root,attr"`
	Extension  string `xml:"extension,attr"`
	NullFlavor string `xml:"nullFlavor,attr"`
}

// Code is a coded value (CD/CE/CS) with optional code system and display.
type Code struct {
	Code           string        `xml:"code,attr"`
	CodeSystem     string        `xml:"codeSystem,attr"`
	CodeSystemName string        `xml:"codeSystemName,attr"`
	DisplayName    string        `xml:"displayName,attr"`
	NullFlavor     string        `xml:"nullFlavor,attr"`
	OriginalText   *OriginalText `xml:"originalText"`
	Translations   []Code        `xml:"translation"`
}

// IsNull reports whether the code carries no usable value.
func (c *Code) IsNull() bool {
	return c == nil || (c.Code == "" && c.NullFlavor != "")
}

// OriginalText holds the narrative text (or reference to it) behind a code.
type OriginalText struct {
	Reference *TextReference `xml:"reference"`
	Text      string         `xml:",chardata"`
}

// TextReference points into the section narrative.
type TextReference struct {
	Value string `xml:"value,attr"`
}

// Time is an HL7 TS or IVL_TS: a literal value and/or low/high bounds,
// each in YYYY[MM[DD[HHmm[ss]]]][±zzzz] form.
type Time struct {
	Value      string `xml:"value,attr"`
	NullFlavor string `xml:"nullFlavor,attr"`
	Low        *Bound `xml:"low"`
	High       *Bound `xml:"high"`
}

// Bound is one endpoint of an interval. For time intervals Value is a
// timestamp; for quantity intervals it is a decimal with a unit.
type Bound struct {
	Value      string `xml:"value,attr"`
	Unit       string `xml:"unit,attr"`
	Inclusive  string `xml:"inclusive,attr"`
	NullFlavor string `xml:"nullFlavor,attr"`
}

// LowValue returns the low bound's timestamp, or "".
func (t *Time) LowValue() string {
	if t == nil || t.Low == nil {
		return ""
	}
	return t.Low.Value
}

// HighValue returns the high bound's timestamp, or "".
func (t *Time) HighValue() string {
	if t == nil || t.High == nil {
		return ""
	}
	return t.High.Value
}

// RecordTarget holds the patient of record in the document header.
type RecordTarget struct {
	PatientRole *PatientRole `xml:"patientRole"`
}

// PatientRole carries patient identifiers, contact details, and demographics.
type PatientRole struct {
	IDs      []InstanceID `xml:"id"`
	Addrs    []Address    `xml:"addr"`
	Telecoms []Telecom    `xml:"telecom"`
	Patient  *Patient     `xml:"patient"`
}

// Patient holds the demographic block inside patientRole.
type Patient struct {
	Names                    []Name                  `xml:"name"`
	AdministrativeGenderCode *Code                   `xml:"administrativeGenderCode"`
	BirthTime                *Time                   `xml:"birthTime"`
	MaritalStatusCode        *Code                   `xml:"maritalStatusCode"`
	LanguageCommunications   []LanguageCommunication `xml:"languageCommunication"`
}

// LanguageCommunication names a language the patient communicates in.
type LanguageCommunication struct {
	LanguageCode  *Code      `xml:"languageCode"`
	PreferenceInd *BoolValue `xml:"preferenceInd"`
}

// BoolValue is a boolean attribute wrapper (BL).
type BoolValue struct {
	Value string `xml:"value,attr"`
}

// True reports whether the element is present and asserts true.
func (b *BoolValue) True() bool {
	return b != nil && b.Value == "true"
}

// Name is a person name (PN) with repeating given parts.
type Name struct {
	Use      string   `xml:"use,attr"`
	Prefixes []string `xml:"prefix"`
	Givens   []string `xml:"given"`
	Family   string   `xml:"family"`
	Suffixes []string `xml:"suffix"`
}

// Address is a postal address (AD).
type Address struct {
	Use         string   `xml:"use,attr"`
	StreetLines []string `xml:"streetAddressLine"`
	City        string   `xml:"city"`
	State       string   `xml:"state"`
	PostalCode  string   `xml:"postalCode"`
	Country     string   `xml:"country"`
}

// Telecom is a contact point (TEL) such as tel: or mailto: URI.
type Telecom struct {
	Use   string `xml:"use,attr"`
	Value string `xml:"value,attr"`
}

// Author is a header- or entry-level author participation.
type Author struct {
	Time           *Time           `xml:"time"`
	AssignedAuthor *AssignedAuthor `xml:"assignedAuthor"`
}

// AssignedAuthor identifies the authoring person, device, or organization.
type AssignedAuthor struct {
	IDs                     []InstanceID     `xml:"id"`
	Code                    *Code            `xml:"code"`
	Addrs                   []Address        `xml:"addr"`
	Telecoms                []Telecom        `xml:"telecom"`
	AssignedPerson          *Person          `xml:"assignedPerson"`
	AssignedAuthoringDevice *AuthoringDevice `xml:"assignedAuthoringDevice"`
	RepresentedOrganization *Organization    `xml:"representedOrganization"`
}

// Person wraps a person name inside an assigned role.
type Person struct {
	Names []Name `xml:"name"`
}

// AuthoringDevice identifies a device acting as author.
type AuthoringDevice struct {
	ManufacturerModelName string `xml:"manufacturerModelName"`
	SoftwareName          string `xml:"softwareName"`
}

// Organization is a represented organization in a role.
type Organization struct {
	IDs      []InstanceID `xml:"id"`
	Names    []string     `xml:"name"`
	Telecoms []Telecom    `xml:"telecom"`
	Addrs    []Address    `xml:"addr"`
}

// Custodian holds the custodian organization of the document.
type Custodian struct {
	AssignedCustodian *AssignedCustodian `xml:"assignedCustodian"`
}

// AssignedCustodian wraps the represented custodian organization.
type AssignedCustodian struct {
	RepresentedCustodianOrganization *CustodianOrganization `xml:"representedCustodianOrganization"`
}

// CustodianOrganization identifies the organization maintaining the document.
type CustodianOrganization struct {
	IDs      []InstanceID `xml:"id"`
	Name     string       `xml:"name"`
	Telecoms []Telecom    `xml:"telecom"`
	Addrs    []Address    `xml:"addr"`
}

// DocumentationOf records the service event the document describes.
type DocumentationOf struct {
	ServiceEvent *ServiceEvent `xml:"serviceEvent"`
}

// ServiceEvent describes the documented clinical service.
type ServiceEvent struct {
	ClassCode     string      `xml:"classCode,attr"`
	EffectiveTime *Time       `xml:"effectiveTime"`
	Performers    []Performer `xml:"performer"`
}

// Component wraps the structured body.
type Component struct {
	StructuredBody *StructuredBody `xml:"structuredBody"`
}

// StructuredBody holds the document's section components.
type StructuredBody struct {
	Components []SectionComponent `xml:"component"`
}

// SectionComponent wraps a single section.
type SectionComponent struct {
	Section *Section `xml:"section"`
}

// Section is a coded document section: template ids, a LOINC identity code,
// narrative text, entries, and optionally nested subsections.
type Section struct {
	TemplateIDs []TemplateID       `xml:"templateId"`
	ID          *InstanceID        `xml:"id"`
	Code        *Code              `xml:"code"`
	Title       string             `xml:"title"`
	Text        *Narrative         `xml:"text"`
	Entries     []Entry            `xml:"entry"`
	Components  []SectionComponent `xml:"component"`
}

// Subsections returns the nested sections, skipping empty wrappers.
func (s *Section) Subsections() []*Section {
	var out []*Section
	for _, comp := range s.Components {
		if comp.Section != nil {
			out = append(out, comp.Section)
		}
	}
	return out
}

// Narrative holds the human-readable block of a section. The converter never
// interprets it; it is retained for callers that render source narratives.
type Narrative struct {
	Content string `xml:",innerxml"`
}

// Entry is a section entry: exactly one of the shape pointers is set in a
// well-formed document. Which clinical concept the shape represents is
// decided solely by its template ids.
type Entry struct {
	TypeCode                string                   `xml:"typeCode,attr"`
	Act                     *Act                     `xml:"act"`
	Observation             *Observation             `xml:"observation"`
	Organizer               *Organizer               `xml:"organizer"`
	SubstanceAdministration *SubstanceAdministration `xml:"substanceAdministration"`
	Procedure               *Procedure               `xml:"procedure"`
	Encounter               *Encounter               `xml:"encounter"`
	Supply                  *Supply                  `xml:"supply"`
}

// Shape names the populated variant, or "" when the entry is empty.
func (e *Entry) Shape() string {
	switch {
	case e.Act != nil:
		return "act"
	case e.Observation != nil:
		return "observation"
	case e.Organizer != nil:
		return "organizer"
	case e.SubstanceAdministration != nil:
		return "substanceAdministration"
	case e.Procedure != nil:
		return "procedure"
	case e.Encounter != nil:
		return "encounter"
	case e.Supply != nil:
		return "supply"
	default:
		return ""
	}
}

// TemplateRoots returns the template ids of the populated shape, in document
// order.
func (e *Entry) TemplateRoots() []string {
	var ids []TemplateID
	switch {
	case e.Act != nil:
		ids = e.Act.TemplateIDs
	case e.Observation != nil:
		ids = e.Observation.TemplateIDs
	case e.Organizer != nil:
		ids = e.Organizer.TemplateIDs
	case e.SubstanceAdministration != nil:
		ids = e.SubstanceAdministration.TemplateIDs
	case e.Procedure != nil:
		ids = e.Procedure.TemplateIDs
	case e.Encounter != nil:
		ids = e.Encounter.TemplateIDs
	case e.Supply != nil:
		ids = e.Supply.TemplateIDs
	}
	roots := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.Root != "" {
			roots = append(roots, id.Root)
		}
	}
	return roots
}

// HasTemplate reports whether any of the ids carries the given root.
func HasTemplate(ids []TemplateID, root string) bool {
	for _, id := range ids {
		if id.Root == root {
			return true
		}
	}
	return false
}

// Act is the CDA act shape (concern wrappers, procedure acts, plan acts).
type Act struct {
	ClassCode          string              `xml:"classCode,attr"`
	MoodCode           string              `xml:"moodCode,attr"`
	NegationInd        string              `xml:"negationInd,attr"`
	TemplateIDs        []TemplateID        `xml:"templateId"`
	IDs                []InstanceID        `xml:"id"`
	Code               *Code               `xml:"code"`
	Text               *OriginalText       `xml:"text"`
	StatusCode         *Code               `xml:"statusCode"`
	EffectiveTime      *Time               `xml:"effectiveTime"`
	Authors            []Author            `xml:"author"`
	Performers         []Performer         `xml:"performer"`
	Participants       []Participant       `xml:"participant"`
	EntryRelationships []EntryRelationship `xml:"entryRelationship"`
}

// Observation is the CDA observation shape (problems, allergies, results,
// vitals, social history, goals, functional status).
type Observation struct {
	ClassCode           string              `xml:"classCode,attr"`
	MoodCode            string              `xml:"moodCode,attr"`
	NegationInd         string              `xml:"negationInd,attr"`
	TemplateIDs         []TemplateID        `xml:"templateId"`
	IDs                 []InstanceID        `xml:"id"`
	Code                *Code               `xml:"code"`
	Text                *OriginalText       `xml:"text"`
	StatusCode          *Code               `xml:"statusCode"`
	EffectiveTime       *Time               `xml:"effectiveTime"`
	Values              []Value             `xml:"value"`
	InterpretationCodes []Code              `xml:"interpretationCode"`
	MethodCode          *Code               `xml:"methodCode"`
	TargetSiteCode      *Code               `xml:"targetSiteCode"`
	Authors             []Author            `xml:"author"`
	Performers          []Performer         `xml:"performer"`
	Participants        []Participant       `xml:"participant"`
	EntryRelationships  []EntryRelationship `xml:"entryRelationship"`
	ReferenceRanges     []ReferenceRange    `xml:"referenceRange"`
}

// FirstValue returns the observation's first value element, or nil.
func (o *Observation) FirstValue() *Value {
	if len(o.Values) == 0 {
		return nil
	}
	return &o.Values[0]
}

// Negated reports whether the observation asserts the absence of its concept.
func (o *Observation) Negated() bool {
	return o.NegationInd == "true"
}

// ReferenceRange carries the normal range for an observation value.
type ReferenceRange struct {
	ObservationRange *ObservationRange `xml:"observationRange"`
}

// ObservationRange is the range payload of a referenceRange.
type ObservationRange struct {
	Text  *OriginalText `xml:"text"`
	Value *Value        `xml:"value"`
}

// Value is a typed observation value: physical quantity (PQ), coded value
// (CD/CE), string (ST), or interval. The xsi:type attribute discriminates.
type Value struct {
	XSIType        string        `xml:"type,attr"`
	Value          string        `xml:"value,attr"`
	Unit           string        `xml:"unit,attr"`
	Code           string        `xml:"code,attr"`
	CodeSystem     string        `xml:"codeSystem,attr"`
	CodeSystemName string        `xml:"codeSystemName,attr"`
	DisplayName    string        `xml:"displayName,attr"`
	NullFlavor     string        `xml:"nullFlavor,attr"`
	Low            *Bound        `xml:"low"`
	High           *Bound        `xml:"high"`
	OriginalText   *OriginalText `xml:"originalText"`
	Translations   []Code        `xml:"translation"`
	Text           string        `xml:",chardata"`
}

// Participant is an entry-level participation (consumables, devices,
// allergens are all modelled as participants in the source format).
type Participant struct {
	TypeCode        string           `xml:"typeCode,attr"`
	ParticipantRole *ParticipantRole `xml:"participantRole"`
}

// ParticipantRole holds the role payload of a participant.
type ParticipantRole struct {
	ClassCode     string         `xml:"classCode,attr"`
	IDs           []InstanceID   `xml:"id"`
	Code          *Code          `xml:"code"`
	Addrs         []Address      `xml:"addr"`
	Telecoms      []Telecom      `xml:"telecom"`
	PlayingEntity *PlayingEntity `xml:"playingEntity"`
	PlayingDevice *PlayingDevice `xml:"playingDevice"`
}

// PlayingEntity is the entity filling a participant role (e.g. an allergen).
type PlayingEntity struct {
	ClassCode string   `xml:"classCode,attr"`
	Code      *Code    `xml:"code"`
	Names     []string `xml:"name"`
}

// PlayingDevice is a device filling a participant role (supply entries).
type PlayingDevice struct {
	Code *Code `xml:"code"`
}

// Performer is an entry-level performer participation.
type Performer struct {
	TypeCode       string          `xml:"typeCode,attr"`
	AssignedEntity *AssignedEntity `xml:"assignedEntity"`
}

// AssignedEntity identifies the person or organization performing.
type AssignedEntity struct {
	IDs                     []InstanceID  `xml:"id"`
	Code                    *Code         `xml:"code"`
	Addrs                   []Address     `xml:"addr"`
	Telecoms                []Telecom     `xml:"telecom"`
	AssignedPerson          *Person       `xml:"assignedPerson"`
	RepresentedOrganization *Organization `xml:"representedOrganization"`
}

// EntryRelationship links a parent entry to a nested one. Every shape can
// appear; which ones are meaningful depends on the parent's template.
type EntryRelationship struct {
	TypeCode                string                   `xml:"typeCode,attr"`
	InversionInd            string                   `xml:"inversionInd,attr"`
	Act                     *Act                     `xml:"act"`
	Observation             *Observation             `xml:"observation"`
	Organizer               *Organizer               `xml:"organizer"`
	SubstanceAdministration *SubstanceAdministration `xml:"substanceAdministration"`
	Procedure               *Procedure               `xml:"procedure"`
	Encounter               *Encounter               `xml:"encounter"`
	Supply                  *Supply                  `xml:"supply"`
}

// SubstanceAdministration is the medication/immunization activity shape.
type SubstanceAdministration struct {
	ClassCode          string              `xml:"classCode,attr"`
	MoodCode           string              `xml:"moodCode,attr"`
	NegationInd        string              `xml:"negationInd,attr"`
	TemplateIDs        []TemplateID        `xml:"templateId"`
	IDs                []InstanceID        `xml:"id"`
	Code               *Code               `xml:"code"`
	Text               *OriginalText       `xml:"text"`
	StatusCode         *Code               `xml:"statusCode"`
	EffectiveTimes     []Time              `xml:"effectiveTime"`
	RouteCode          *Code               `xml:"routeCode"`
	DoseQuantity       *Value              `xml:"doseQuantity"`
	RateQuantity       *Value              `xml:"rateQuantity"`
	Consumable         *Consumable         `xml:"consumable"`
	Authors            []Author            `xml:"author"`
	Performers         []Performer         `xml:"performer"`
	Participants       []Participant       `xml:"participant"`
	EntryRelationships []EntryRelationship `xml:"entryRelationship"`
}

// Negated reports whether the activity asserts non-administration.
func (sa *SubstanceAdministration) Negated() bool {
	return sa.NegationInd == "true"
}

// IntervalTime returns the first effectiveTime, which by convention carries
// the administration interval; later repetitions carry dose frequency.
func (sa *SubstanceAdministration) IntervalTime() *Time {
	if len(sa.EffectiveTimes) == 0 {
		return nil
	}
	return &sa.EffectiveTimes[0]
}

// Consumable wraps the manufactured product of an administration.
type Consumable struct {
	ManufacturedProduct *ManufacturedProduct `xml:"manufacturedProduct"`
}

// ManufacturedProduct holds the administered material.
type ManufacturedProduct struct {
	TemplateIDs              []TemplateID          `xml:"templateId"`
	ManufacturedMaterial     *ManufacturedMaterial `xml:"manufacturedMaterial"`
	ManufacturerOrganization *Organization         `xml:"manufacturerOrganization"`
}

// ManufacturedMaterial carries the material code and lot number.
type ManufacturedMaterial struct {
	Code          *Code  `xml:"code"`
	LotNumberText string `xml:"lotNumberText"`
}

// MaterialCode returns the consumable's material code, or nil.
func (c *Consumable) MaterialCode() *Code {
	if c == nil || c.ManufacturedProduct == nil || c.ManufacturedProduct.ManufacturedMaterial == nil {
		return nil
	}
	return c.ManufacturedProduct.ManufacturedMaterial.Code
}

// Organizer groups member observations (lab panels, vital sign sets).
type Organizer struct {
	ClassCode     string               `xml:"classCode,attr"`
	MoodCode      string               `xml:"moodCode,attr"`
	TemplateIDs   []TemplateID         `xml:"templateId"`
	IDs           []InstanceID         `xml:"id"`
	Code          *Code                `xml:"code"`
	StatusCode    *Code                `xml:"statusCode"`
	EffectiveTime *Time                `xml:"effectiveTime"`
	Authors       []Author             `xml:"author"`
	Performers    []Performer          `xml:"performer"`
	Components    []OrganizerComponent `xml:"component"`
}

// Observations returns the non-nil member observations in document order.
func (o *Organizer) Observations() []*Observation {
	var out []*Observation
	for _, comp := range o.Components {
		if comp.Observation != nil {
			out = append(out, comp.Observation)
		}
	}
	return out
}

// OrganizerComponent wraps one organizer member.
type OrganizerComponent struct {
	Observation *Observation `xml:"observation"`
}

// Procedure is the CDA procedure shape.
type Procedure struct {
	ClassCode          string              `xml:"classCode,attr"`
	MoodCode           string              `xml:"moodCode,attr"`
	NegationInd        string              `xml:"negationInd,attr"`
	TemplateIDs        []TemplateID        `xml:"templateId"`
	IDs                []InstanceID        `xml:"id"`
	Code               *Code               `xml:"code"`
	Text               *OriginalText       `xml:"text"`
	StatusCode         *Code               `xml:"statusCode"`
	EffectiveTime      *Time               `xml:"effectiveTime"`
	TargetSiteCodes    []Code              `xml:"targetSiteCode"`
	Authors            []Author            `xml:"author"`
	Performers         []Performer         `xml:"performer"`
	Participants       []Participant       `xml:"participant"`
	EntryRelationships []EntryRelationship `xml:"entryRelationship"`
}

// Negated reports whether the procedure asserts non-performance.
func (p *Procedure) Negated() bool {
	return p.NegationInd == "true"
}

// Encounter is the CDA encounter shape.
type Encounter struct {
	ClassCode          string              `xml:"classCode,attr"`
	MoodCode           string              `xml:"moodCode,attr"`
	TemplateIDs        []TemplateID        `xml:"templateId"`
	IDs                []InstanceID        `xml:"id"`
	Code               *Code               `xml:"code"`
	Text               *OriginalText       `xml:"text"`
	StatusCode         *Code               `xml:"statusCode"`
	EffectiveTime      *Time               `xml:"effectiveTime"`
	Performers         []Performer         `xml:"performer"`
	Participants       []Participant       `xml:"participant"`
	EntryRelationships []EntryRelationship `xml:"entryRelationship"`
}

// Supply is the CDA supply shape (medical equipment).
type Supply struct {
	ClassCode     string        `xml:"classCode,attr"`
	MoodCode      string        `xml:"moodCode,attr"`
	TemplateIDs   []TemplateID  `xml:"templateId"`
	IDs           []InstanceID  `xml:"id"`
	StatusCode    *Code         `xml:"statusCode"`
	EffectiveTime *Time         `xml:"effectiveTime"`
	Quantity      *Value        `xml:"quantity"`
	Participants  []Participant `xml:"participant"`
}

// DeviceCode returns the code of the device participant, or nil.
func (s *Supply) DeviceCode() *Code {
	for _, p := range s.Participants {
		if p.ParticipantRole != nil && p.ParticipantRole.PlayingDevice != nil {
			if c := p.ParticipantRole.PlayingDevice.Code; c != nil {
				return c
			}
		}
	}
	return nil
}
