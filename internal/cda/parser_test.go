package cda

import (
	"strings"
	"testing"
)

const basicCCD = `<?xml version="1.0" encoding="UTF-8"?>
<ClinicalDocument xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <realmCode code="US"/>
  <typeId root="2.16.840.1.113883.1.3" extension="POCD_HD000040"/>
  <templateId root="2.16.840.1.113883.10.20.22.1.1"/>
  <templateId root="2.16.840.1.113883.10.20.22.1.2"/>
  <id root="2.16.840.1.113883.19.5" extension="doc-42"/>
  <code code="34133-9" codeSystem="2.16.840.1.113883.6.1" displayName="Summarization of Episode Note"/>
  <title>Continuity of Care Document</title>
  <effectiveTime value="20240301120000"/>
  <confidentialityCode code="N" codeSystem="2.16.840.1.113883.5.25"/>
  <recordTarget>
    <patientRole>
      <id root="2.16.840.1.113883.19.5" extension="patient-123"/>
      <addr use="HP">
        <streetAddressLine>100 Main St</streetAddressLine>
        <city>Springfield</city>
        <state>IL</state>
        <postalCode>62701</postalCode>
      </addr>
      <telecom use="HP" value="tel:+1-555-0100"/>
      <patient>
        <name><given>John</given><family>Doe</family></name>
        <administrativeGenderCode code="M" codeSystem="2.16.840.1.113883.5.1" displayName="Male"/>
        <birthTime value="19800115"/>
      </patient>
    </patientRole>
  </recordTarget>
  <author>
    <time value="20240301120000"/>
    <assignedAuthor>
      <id root="2.16.840.1.113883.4.6" extension="99999"/>
      <assignedPerson><name><given>Ada</given><family>Welby</family></name></assignedPerson>
    </assignedAuthor>
  </author>
  <custodian>
    <assignedCustodian>
      <representedCustodianOrganization>
        <id root="2.16.840.1.113883.19.5"/>
        <name>Good Health Clinic</name>
      </representedCustodianOrganization>
    </assignedCustodian>
  </custodian>
  <component>
    <structuredBody>
      <component>
        <section>
          <templateId root="2.16.840.1.113883.10.20.22.2.5.1"/>
          <code code="11450-4" codeSystem="2.16.840.1.113883.6.1"/>
          <title>Problems</title>
          <entry typeCode="DRIV">
            <act classCode="ACT" moodCode="EVN">
              <templateId root="2.16.840.1.113883.10.20.22.4.3"/>
              <id root="ec8a6ff8-ed4b-4f7e-82c3-e98e58b45de7"/>
              <code code="CONC" codeSystem="2.16.840.1.113883.5.6"/>
              <statusCode code="active"/>
              <effectiveTime><low value="20230510"/></effectiveTime>
              <entryRelationship typeCode="SUBJ">
                <observation classCode="OBS" moodCode="EVN">
                  <templateId root="2.16.840.1.113883.10.20.22.4.4"/>
                  <id root="ab1791b0-5c71-11db-b0de-0800200c9a66"/>
                  <code code="55607006" codeSystem="2.16.840.1.113883.6.96" displayName="Problem"/>
                  <statusCode code="completed"/>
                  <effectiveTime><low value="20230510"/></effectiveTime>
                  <value xsi:type="CD" code="38341003" codeSystem="2.16.840.1.113883.6.96" displayName="Essential hypertension"/>
                </observation>
              </entryRelationship>
            </act>
          </entry>
        </section>
      </component>
    </structuredBody>
  </component>
</ClinicalDocument>`

func TestParse_BasicDocument(t *testing.T) {
	doc, err := Parse([]byte(basicCCD))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	if doc.Title != "Continuity of Care Document" {
		t.Errorf("expected title 'Continuity of Care Document', got %q", doc.Title)
	}
	if doc.ID == nil || doc.ID.Extension != "doc-42" {
		t.Errorf("expected document id extension 'doc-42', got %+v", doc.ID)
	}
	if doc.EffectiveTime == nil || doc.EffectiveTime.Value != "20240301120000" {
		t.Errorf("expected effectiveTime '20240301120000', got %+v", doc.EffectiveTime)
	}
	if !HasTemplate(doc.TemplateIDs, TemplateCCDDocument) {
		t.Error("expected CCD document template id")
	}

	if doc.RecordTarget == nil || doc.RecordTarget.PatientRole == nil {
		t.Fatal("expected recordTarget/patientRole")
	}
	role := doc.RecordTarget.PatientRole
	if len(role.IDs) != 1 || role.IDs[0].Extension != "patient-123" {
		t.Errorf("expected patient id extension 'patient-123', got %+v", role.IDs)
	}
	if role.Patient == nil || len(role.Patient.Names) != 1 {
		t.Fatal("expected one patient name")
	}
	name := role.Patient.Names[0]
	if len(name.Givens) != 1 || name.Givens[0] != "John" || name.Family != "Doe" {
		t.Errorf("expected name John Doe, got %+v", name)
	}
	if role.Patient.AdministrativeGenderCode.Code != "M" {
		t.Errorf("expected gender code 'M', got %q", role.Patient.AdministrativeGenderCode.Code)
	}
	if role.Patient.BirthTime.Value != "19800115" {
		t.Errorf("expected birthTime '19800115', got %q", role.Patient.BirthTime.Value)
	}

	if len(doc.Authors) != 1 {
		t.Fatalf("expected one author, got %d", len(doc.Authors))
	}
	author := doc.Authors[0].AssignedAuthor
	if author == nil || author.AssignedPerson == nil || len(author.AssignedPerson.Names) != 1 {
		t.Fatal("expected author assignedPerson name")
	}
	if author.AssignedPerson.Names[0].Family != "Welby" {
		t.Errorf("expected author family 'Welby', got %q", author.AssignedPerson.Names[0].Family)
	}

	if doc.Custodian == nil || doc.Custodian.AssignedCustodian == nil ||
		doc.Custodian.AssignedCustodian.RepresentedCustodianOrganization == nil {
		t.Fatal("expected custodian organization")
	}
	if got := doc.Custodian.AssignedCustodian.RepresentedCustodianOrganization.Name; got != "Good Health Clinic" {
		t.Errorf("expected custodian 'Good Health Clinic', got %q", got)
	}
}

func TestParse_ProblemSectionEntry(t *testing.T) {
	doc, err := Parse([]byte(basicCCD))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	sections := doc.Body()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	section := sections[0]
	if section.Code == nil || section.Code.Code != LOINCProblemsSection {
		t.Errorf("expected section code %q, got %+v", LOINCProblemsSection, section.Code)
	}
	if len(section.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(section.Entries))
	}

	entry := section.Entries[0]
	if entry.Shape() != "act" {
		t.Errorf("expected act shape, got %q", entry.Shape())
	}
	roots := entry.TemplateRoots()
	if len(roots) != 1 || roots[0] != TemplateProblemConcernAct {
		t.Errorf("expected problem concern template, got %v", roots)
	}

	if len(entry.Act.EntryRelationships) != 1 {
		t.Fatalf("expected 1 entryRelationship, got %d", len(entry.Act.EntryRelationships))
	}
	obs := entry.Act.EntryRelationships[0].Observation
	if obs == nil {
		t.Fatal("expected nested observation")
	}
	val := obs.FirstValue()
	if val == nil {
		t.Fatal("expected observation value")
	}
	if val.XSIType != "CD" {
		t.Errorf("expected value type 'CD', got %q", val.XSIType)
	}
	if val.Code != "38341003" {
		t.Errorf("expected value code '38341003', got %q", val.Code)
	}
	if obs.EffectiveTime.LowValue() != "20230510" {
		t.Errorf("expected effectiveTime low '20230510', got %q", obs.EffectiveTime.LowValue())
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParse_MalformedXML(t *testing.T) {
	if _, err := Parse([]byte("<ClinicalDocument><unclosed>")); err == nil {
		t.Error("expected error for malformed XML")
	}
}

func TestParse_NestedSections(t *testing.T) {
	const nested = `<?xml version="1.0"?>
<ClinicalDocument xmlns="urn:hl7-org:v3">
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="29762-2" codeSystem="2.16.840.1.113883.6.1"/>
          <title>Social History</title>
          <component>
            <section>
              <code code="72166-2" codeSystem="2.16.840.1.113883.6.1"/>
              <title>Smoking Status</title>
            </section>
          </component>
        </section>
      </component>
    </structuredBody>
  </component>
</ClinicalDocument>`

	doc, err := Parse([]byte(nested))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	sections := doc.Body()
	if len(sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(sections))
	}
	subsections := sections[0].Subsections()
	if len(subsections) != 1 {
		t.Fatalf("expected 1 nested section, got %d", len(subsections))
	}
	if subsections[0].Code.Code != "72166-2" {
		t.Errorf("expected nested section code '72166-2', got %q", subsections[0].Code.Code)
	}
}

func TestEntry_Shape(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"act", Entry{Act: &Act{}}, "act"},
		{"observation", Entry{Observation: &Observation{}}, "observation"},
		{"organizer", Entry{Organizer: &Organizer{}}, "organizer"},
		{"substanceAdministration", Entry{SubstanceAdministration: &SubstanceAdministration{}}, "substanceAdministration"},
		{"procedure", Entry{Procedure: &Procedure{}}, "procedure"},
		{"encounter", Entry{Encounter: &Encounter{}}, "encounter"},
		{"supply", Entry{Supply: &Supply{}}, "supply"},
		{"empty", Entry{}, ""},
	}

	for _, tt := range tests {
		if got := tt.entry.Shape(); got != tt.want {
			t.Errorf("%s: expected shape %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestEntry_TemplateRoots(t *testing.T) {
	entry := Entry{Observation: &Observation{
		TemplateIDs: []TemplateID{
			{Root: TemplateProblemObservation},
			{Root: TemplateProblemObservation, Extension: "2015-08-01"},
			{Root: ""},
		},
	}}

	roots := entry.TemplateRoots()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	for _, r := range roots {
		if r != TemplateProblemObservation {
			t.Errorf("unexpected root %q", r)
		}
	}
}

func TestCode_IsNull(t *testing.T) {
	var nilCode *Code
	if !nilCode.IsNull() {
		t.Error("expected nil code to be null")
	}
	if !(&Code{NullFlavor: "UNK"}).IsNull() {
		t.Error("expected nullFlavor-only code to be null")
	}
	if (&Code{Code: "38341003"}).IsNull() {
		t.Error("expected populated code to be non-null")
	}
}

func TestParse_ValueAttributeFallsThroughNamespaces(t *testing.T) {
	// xsi:type must be readable whether or not the prefix form is used.
	const doc = `<?xml version="1.0"?>
<ClinicalDocument xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <component><structuredBody><component><section>
    <code code="30954-2" codeSystem="2.16.840.1.113883.6.1"/>
    <entry><observation classCode="OBS" moodCode="EVN">
      <templateId root="2.16.840.1.113883.10.20.22.4.2"/>
      <value xsi:type="PQ" value="6.5" unit="mmol/L"/>
    </observation></entry>
  </section></component></structuredBody></component>
</ClinicalDocument>`

	parsed, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	val := parsed.Body()[0].Entries[0].Observation.FirstValue()
	if val == nil {
		t.Fatal("expected a value")
	}
	if val.XSIType != "PQ" || val.Value != "6.5" || val.Unit != "mmol/L" {
		t.Errorf("unexpected value %+v", val)
	}
}

func TestParse_RejectsNonCDARoot(t *testing.T) {
	_, err := Parse([]byte(`<Bundle xmlns="http://hl7.org/fhir"></Bundle>`))
	if err == nil {
		t.Fatal("expected error for non-CDA root element")
	}
	if !strings.Contains(err.Error(), "cda:") {
		t.Errorf("expected cda-prefixed error, got %v", err)
	}
}
