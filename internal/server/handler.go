package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/convert"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/store"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	// maxDocumentBytes bounds the request body. Real CCDs run to a few MB;
	// anything bigger is not a document.
	maxDocumentBytes = 32 << 20
)

// Handler serves the conversion API.
type Handler struct {
	store     store.Store
	validator convert.ResourceValidator
	vocab     convert.Vocabulary
	strict    bool
	persist   bool
	log       zerolog.Logger
}

// NewHandler wires the conversion endpoints. store may be nil when
// persistence is disabled; validator and vocab may be nil for the engine
// defaults.
func NewHandler(st store.Store, validator convert.ResourceValidator, vocab convert.Vocabulary, strict, persist bool, log zerolog.Logger) *Handler {
	return &Handler{
		store:     st,
		validator: validator,
		vocab:     vocab,
		strict:    strict,
		persist:   persist,
		log:       log,
	}
}

// RegisterRoutes registers the conversion endpoints on the given group.
//
//	POST /convert          - Convert a C-CDA document to a bundle
//	GET  /conversions      - List logged conversions
//	GET  /conversions/:id  - Fetch one logged conversion
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/convert", h.Convert)
	g.GET("/conversions", h.ListConversions)
	g.GET("/conversions/:id", h.GetConversion)
}

// convertResponse is the success payload: the bundle plus any issues the
// lenient walk recorded.
type convertResponse struct {
	Bundle *fhir.Bundle  `json:"bundle"`
	Issues []store.Issue `json:"issues,omitempty"`
}

type errorResponse struct {
	Error  string        `json:"error"`
	Issues []store.Issue `json:"issues,omitempty"`
}

// Convert handles POST /api/v1/convert. The body is the C-CDA XML document.
// ?strict=true fails on any issue; ?persist=true logs the run.
func (h *Handler) Convert(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
	}
	if len(body) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "request body is empty"})
	}

	doc, err := cda.Parse(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to parse document: " + err.Error()})
	}

	strict := h.strict
	if v := c.QueryParam("strict"); v != "" {
		strict = v == "true"
	}
	persist := h.persist
	if v := c.QueryParam("persist"); v != "" {
		persist = v == "true"
	}

	result, err := convert.Convert(doc, convert.Options{
		Vocab:     h.vocab,
		Validator: h.validator,
		Strict:    strict,
		Logger:    h.log,
	})
	if err != nil {
		issues := issuesOf(conversionErrors(err))
		if persist {
			h.record(c, doc, store.StatusFailed, 0, issues)
		}
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  "conversion failed",
			Issues: issues,
		})
	}

	issues := issuesOf(result.Issues)
	if persist {
		status := store.StatusSuccess
		if len(issues) > 0 {
			status = store.StatusPartial
		}
		h.record(c, doc, status, len(result.Bundle.Entry), issues)
	}

	return c.JSON(http.StatusOK, convertResponse{Bundle: result.Bundle, Issues: issues})
}

// ListConversions handles GET /api/v1/conversions with limit/offset
// pagination.
func (h *Handler) ListConversions(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "conversion log is not enabled"})
	}

	limit, offset := paginationParams(c)
	recs, total, err := h.store.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list conversions"})
	}
	if recs == nil {
		recs = []*store.ConversionRecord{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":     recs,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": offset+limit < total,
	})
}

// GetConversion handles GET /api/v1/conversions/:id.
func (h *Handler) GetConversion(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "conversion log is not enabled"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid conversion id"})
	}

	rec, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "conversion not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load conversion"})
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) record(c echo.Context, doc *cda.Document, status string, resourceCount int, issues []store.Issue) {
	if h.store == nil {
		return
	}
	rec := &store.ConversionRecord{
		DocumentID:    documentID(doc),
		PatientID:     patientID(doc),
		Status:        status,
		ResourceCount: resourceCount,
		IssueCount:    len(issues),
		Issues:        issues,
	}
	if err := h.store.Save(c.Request().Context(), rec); err != nil {
		h.log.Error().Err(err).Msg("failed to persist conversion record")
	}
}

func documentID(doc *cda.Document) string {
	if doc.ID == nil {
		return ""
	}
	if doc.ID.Extension != "" {
		return doc.ID.Extension
	}
	return doc.ID.Root
}

func patientID(doc *cda.Document) string {
	if doc.RecordTarget == nil || doc.RecordTarget.PatientRole == nil {
		return ""
	}
	for _, id := range doc.RecordTarget.PatientRole.IDs {
		if id.Extension != "" {
			return id.Extension
		}
		if id.Root != "" {
			return id.Root
		}
	}
	return ""
}

// conversionErrors flattens the engine's error value into its issue list.
func conversionErrors(err error) []*convert.Error {
	var many convert.Errors
	if errors.As(err, &many) {
		return many
	}
	var one *convert.Error
	if errors.As(err, &one) {
		return []*convert.Error{one}
	}
	return []*convert.Error{{Kind: convert.MalformedStructure, Detail: err.Error()}}
}

func issuesOf(errs []*convert.Error) []store.Issue {
	if len(errs) == 0 {
		return nil
	}
	issues := make([]store.Issue, len(errs))
	for i, e := range errs {
		issues[i] = store.Issue{
			Kind:    string(e.Kind),
			Concept: e.Concept,
			Path:    e.Path,
			Detail:  e.Detail,
		}
	}
	return issues
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("_count"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(c.QueryParam("limit"))
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
