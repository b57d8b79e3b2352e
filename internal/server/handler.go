package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/diagram"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/export"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/importer"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/version"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 10 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler serves the evaluation API. Criteria is the base every request starts from.
type Handler struct {
	Criteria criteria.Criteria
}

// EvaluateRequest is the body of the evaluate endpoints: the inputs inline,
// plus an optional report title and criteria overrides.
type EvaluateRequest struct {
	globalcheck.Inputs
	Title    string          `json:"title,omitempty"`
	Criteria json.RawMessage `json:"criteria,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// CriteriaResponse lists the active criteria and the available structure presets
type CriteriaResponse struct {
	Criteria   criteria.Criteria   `json:"criteria"`
	Structures []StructureResponse `json:"structures"`
}

type StructureResponse struct {
	Type        criteria.StructureType `json:"type"`
	Ct          float64                `json:"ct"`
	X           float64                `json:"x"`
	Description string                 `json:"description"`
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	res, _, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CSV returns the load table; ?format=metrics returns every metric instead
func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	res, _, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	write := export.WriteCSV
	name := "vertical_loads.csv"
	if r.URL.Query().Get("format") == "metrics" {
		write = export.WriteMetricsCSV
		name = "global_check.csv"
	}

	var buf bytes.Buffer
	if err := write(&buf, res); err != nil {
		writeError(w, http.StatusInternalServerError, "CSV generation error", "")
		return
	}
	attach(w, "text/csv; charset=utf-8", name)
	w.Write(buf.Bytes())
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	res, title, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	if title == "" {
		title = "ETABS Global Check"
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, title, res); err != nil {
		writeError(w, http.StatusInternalServerError, "Report generation error", "")
		return
	}
	attach(w, "application/pdf", "global_check.pdf")
	w.Write(buf.Bytes())
}

// Chart renders the vertical load distribution; ?format=svg or pdf, png by default
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	res, _, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	contentType := map[string]string{
		"":    "image/png",
		"png": "image/png",
		"svg": "image/svg+xml",
		"pdf": "application/pdf",
	}[format]
	if contentType == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported chart format %q", format), "format")
		return
	}
	if format == "" {
		format = "png"
	}

	var buf bytes.Buffer
	if err := diagram.WriteLoadChart(&buf, res, format); err != nil {
		if errors.Is(err, diagram.ErrNoData) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Chart generation error", "")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// Batch evaluates every building of an uploaded workbook (form field "file")
// and returns the summary workbook.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required", "file")
		return
	}
	defer file.Close()

	rows, err := importer.ReadWorkbook(file)
	if err != nil {
		if errors.Is(err, importer.ErrNoHeader) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "file")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid workbook", "file")
		return
	}

	results := export.EvaluateRows(globalcheck.New(h.Criteria), rows)
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, results); err != nil {
		writeError(w, http.StatusInternalServerError, "Workbook generation error", "")
		return
	}
	attach(w, xlsxContentType, "global_check.xlsx")
	w.Write(buf.Bytes())
}

func (h *Handler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	resp := CriteriaResponse{Criteria: h.Criteria}
	for _, st := range criteria.StructureTypes() {
		p := criteria.Presets[st]
		resp.Structures = append(resp.Structures, StructureResponse{
			Type:        st,
			Ct:          p.Ct,
			X:           p.X,
			Description: p.Description,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// evaluate decodes the request and runs the evaluator, writing the error response itself on failure
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) (*globalcheck.Result, string, bool) {
	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error(), "")
		return nil, "", false
	}

	c := h.Criteria
	if len(req.Criteria) > 0 {
		var err error
		if c, err = criteria.Override(h.Criteria, req.Criteria); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "criteria")
			return nil, "", false
		}
	}

	res, err := globalcheck.New(c).Evaluate(req.Inputs)
	if err != nil {
		var verr *globalcheck.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error(), verr.Field)
			return nil, "", false
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "")
		return nil, "", false
	}
	return res, req.Title, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

func attach(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
