package tabular

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterHTTP registers the PDF conversion endpoints on a chi router.
//
//	POST /convert-pdf-to-csv  — multipart upload → JSON or CSV
//	GET  /pdf-to-csv-info     — capability description
func (p *Pipeline) RegisterHTTP(r chi.Router) {
	r.Post("/convert-pdf-to-csv", p.handleConvert)
	r.Get("/pdf-to-csv-info", p.handleInfo)
}

// multipart form memory budget; larger parts spill to temp files.
const formMemory = 32 << 20

func (p *Pipeline) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, p.cfg.MaxFileSize+formMemory)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	method, err := ParseMethod(r.FormValue("method"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := ParseOutputFormat(r.FormValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	res, err := p.Extract(r.Context(), data, method)
	if err != nil {
		p.logger.Error("pdf conversion failed", "method", method, "file", header.Filename, "error", err)
		switch {
		case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrInvalidPDF), errors.Is(err, ErrUnknownMethod):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoContent):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if format == OutputCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+csvFilename(header.Filename)+`"`)
		if err := WriteCSV(w, res); err != nil {
			p.logger.Error("csv write failed", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*Result
	}{Success: true, Result: res})
}

func (p *Pipeline) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "PDF to CSV conversion",
		"methods": map[string]string{
			string(MethodAuto):    "try each method in order, keep the first that yields rows",
			string(MethodPlumber): "per-page table reconstruction from positioned text",
			string(MethodTabula):  "whole-document frame extraction, one frame per table",
			string(MethodText):    "plain text fallback, one row per non-empty line",
		},
		"formats":        []string{string(OutputJSON), string(OutputCSV)},
		"max_file_size":  p.cfg.MaxFileSize,
		"provenance":     []string{ColPage, ColTable},
		"default_method": string(MethodAuto),
		"default_format": string(OutputJSON),
	})
}

// csvFilename derives the attachment name from the uploaded file name.
func csvFilename(upload string) string {
	base := filepath.Base(strings.TrimSpace(upload))
	if base == "" || base == "." || base == "/" {
		return "extracted.csv"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg, "success": false})
}
