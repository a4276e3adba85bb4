package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/store"
	"github.com/ehr/cdafhir/internal/validate"
)

const sampleCCD = `<?xml version="1.0" encoding="UTF-8"?>
<ClinicalDocument xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <typeId root="2.16.840.1.113883.1.3" extension="POCD_HD000040"/>
  <templateId root="2.16.840.1.113883.10.20.22.1.2"/>
  <id root="2.16.840.1.113883.19.5" extension="doc-42"/>
  <code code="34133-9" codeSystem="2.16.840.1.113883.6.1" displayName="Summarization of Episode Note"/>
  <title>Continuity of Care Document</title>
  <effectiveTime value="20240301120000"/>
  <recordTarget>
    <patientRole>
      <id root="2.16.840.1.113883.19.5" extension="patient-123"/>
      <patient>
        <name use="L"><given>John</given><family>Doe</family></name>
        <administrativeGenderCode code="M" codeSystem="2.16.840.1.113883.5.1"/>
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
          <entry>
            <act classCode="ACT" moodCode="EVN">
              <templateId root="2.16.840.1.113883.10.20.22.4.3"/>
              <id root="1.2.3.4" extension="concern-1"/>
              <code code="CONC" codeSystem="2.16.840.1.113883.5.6"/>
              <statusCode code="active"/>
              <entryRelationship typeCode="SUBJ">
                <observation classCode="OBS" moodCode="EVN">
                  <templateId root="2.16.840.1.113883.10.20.22.4.4"/>
                  <id root="1.2.3.4" extension="prob-1"/>
                  <code code="55607006" codeSystem="2.16.840.1.113883.6.96"/>
                  <statusCode code="completed"/>
                  <effectiveTime value="20230510"/>
                  <value xsi:type="CD" code="38341003" codeSystem="2.16.840.1.113883.6.96" displayName="Hypertension"/>
                </observation>
              </entryRelationship>
            </act>
          </entry>
        </section>
      </component>
    </structuredBody>
  </component>
</ClinicalDocument>`

// brokenCCD has a problem observation without a value, which records a
// missing-required-field issue.
var brokenCCD = strings.Replace(sampleCCD,
	`<value xsi:type="CD" code="38341003" codeSystem="2.16.840.1.113883.6.96" displayName="Hypertension"/>`,
	"", 1)

func devServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	return New(Config{
		Addr: ":0",
		Dev:  true,
	}, st, validate.NewChecker(), nil, zerolog.Nop())
}

func doRequest(s *Server, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestConvertEndpoint(t *testing.T) {
	s := devServer(t, nil)
	rec := doRequest(s, http.MethodPost, "/api/v1/convert", sampleCCD, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Bundle struct {
			ResourceType string `json:"resourceType"`
			Type         string `json:"type"`
			Entry        []struct {
				FullURL string `json:"fullUrl"`
			} `json:"entry"`
		} `json:"bundle"`
		Issues []store.Issue `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Bundle.ResourceType != "Bundle" || resp.Bundle.Type != "document" {
		t.Errorf("unexpected bundle envelope: %+v", resp.Bundle)
	}
	if len(resp.Bundle.Entry) < 3 {
		t.Errorf("expected composition, patient and condition entries, got %d", len(resp.Bundle.Entry))
	}
	if len(resp.Issues) != 0 {
		t.Errorf("expected no issues, got %v", resp.Issues)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestConvertEndpoint_LenientReportsIssues(t *testing.T) {
	s := devServer(t, nil)
	rec := doRequest(s, http.MethodPost, "/api/v1/convert", brokenCCD, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Issues []store.Issue `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Issues) != 1 || resp.Issues[0].Kind != "missing-required-field" {
		t.Errorf("expected one missing-required-field issue, got %v", resp.Issues)
	}
}

func TestConvertEndpoint_StrictFails(t *testing.T) {
	s := devServer(t, nil)
	rec := doRequest(s, http.MethodPost, "/api/v1/convert?strict=true", brokenCCD, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Issues) == 0 {
		t.Error("expected the failing issues in the response")
	}
}

func TestConvertEndpoint_BadRequests(t *testing.T) {
	s := devServer(t, nil)

	rec := doRequest(s, http.MethodPost, "/api/v1/convert", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body: expected 400, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/convert", "this is not xml", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("junk body: expected 400, got %d", rec.Code)
	}
}

func TestConvertEndpoint_Persists(t *testing.T) {
	st := store.NewMemory()
	s := devServer(t, st)

	rec := doRequest(s, http.MethodPost, "/api/v1/convert?persist=true", sampleCCD, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	recs, total, err := st.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected one logged conversion, got %d", total)
	}
	got := recs[0]
	if got.DocumentID != "doc-42" || got.PatientID != "patient-123" {
		t.Errorf("unexpected record identity: %+v", got)
	}
	if got.Status != store.StatusSuccess || got.ResourceCount == 0 {
		t.Errorf("unexpected record outcome: %+v", got)
	}
}

func TestListConversions(t *testing.T) {
	st := store.NewMemory()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &store.ConversionRecord{
			DocumentID: "doc",
			Status:     store.StatusSuccess,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.Save(context.Background(), rec); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	s := devServer(t, st)
	rec := doRequest(s, http.MethodGet, "/api/v1/conversions?limit=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data    []store.ConversionRecord `json:"data"`
		Total   int                      `json:"total"`
		HasMore bool                     `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 3 || len(resp.Data) != 2 || !resp.HasMore {
		t.Errorf("unexpected page: total=%d len=%d has_more=%v", resp.Total, len(resp.Data), resp.HasMore)
	}
}

func TestGetConversion_NotFound(t *testing.T) {
	s := devServer(t, store.NewMemory())
	rec := doRequest(s, http.MethodGet, "/api/v1/conversions/0c7f6a2e-55be-4f53-9007-87b2c9a5d3f1", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/conversions/not-a-uuid", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := devServer(t, nil)
	rec := doRequest(s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	secret := "test-secret"
	s := New(Config{
		Addr:      ":0",
		Dev:       false,
		JWTSecret: secret,
	}, nil, nil, nil, zerolog.Nop())

	rec := doRequest(s, http.MethodPost, "/api/v1/convert", sampleCCD, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/convert", sampleCCD,
		map[string]string{"Authorization": "Bearer not.a.token"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "integration-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"converter"},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/convert", sampleCCD,
		map[string]string{"Authorization": "Bearer " + signed})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
