package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harbourops/importer/internal/csvio"
	"github.com/harbourops/importer/internal/history"
	"github.com/harbourops/importer/internal/importer"
	"github.com/harbourops/importer/internal/logging"
)

// importResponse is the JSON body returned after a run completes.
type importResponse struct {
	RunID    string   `json:"runId"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// handleImport accepts a multipart upload and runs the import pipeline.
// Holds an import slot for the whole run; 429 when none frees up in time.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	category := importer.Category(chi.URLParam(r, "category"))
	def, ok := importer.Lookup(category)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown import category: %s", category), http.StatusNotFound)
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusBadRequest)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, importer.ErrTooManyImports) {
			status = http.StatusTooManyRequests
		}
		s.respondError(w, r, err, status)
		return
	}
	defer s.limiter.Release()

	runID := uuid.New()
	log := logging.WithFields(r.Context(), "run_id", runID, "category", def.Key)
	log.Info("import started", "file", header.Filename, "size", header.Size)

	started := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	out, err := s.runner.Run(ctx, def.Key, header.Filename, data)
	if err != nil {
		log.Error("import aborted", "error", err)
		s.respondError(w, r, err, importAbortStatus(err))
		return
	}

	run := history.Run{
		ID:       runID,
		Category: string(out.Category),
		FileName: header.Filename,
		Status:   string(out.Status()),
		Success:  out.Success,
		Failed:   out.Failed,
		Skipped:  out.Skipped,
		Errors:   out.Errors,
		Duration: time.Since(started),
		RunAt:    started,
	}
	if err := s.store.Record(r.Context(), run); err != nil {
		// The import itself succeeded; losing the audit record is not
		// worth failing the request over.
		log.Error("failed to record import run", "error", err)
	}

	writeJSON(w, http.StatusOK, importResponse{
		RunID:    runID.String(),
		Category: string(out.Category),
		Status:   string(out.Status()),
		Success:  out.Success,
		Failed:   out.Failed,
		Skipped:  out.Skipped,
		Errors:   out.Errors,
	})
}

// importAbortStatus maps pipeline-level failures onto HTTP statuses: bad
// uploads are the client's fault, a failed reference fetch is not.
func importAbortStatus(err error) int {
	var gen *importer.GeneralError
	if errors.As(err, &gen) {
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

// handleDownloadTemplate serves an empty CSV template with the category's
// canonical headers.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	category := importer.Category(chi.URLParam(r, "category"))
	def, ok := importer.Lookup(category)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown import category: %s", category), http.StatusNotFound)
		return
	}

	data, err := csvio.Encode([][]string{def.Headers})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(def.Key)+"_template.csv"))
	w.Write(data)
}

// categoryInfo describes one import category for the listing endpoint.
type categoryInfo struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Headers  []string `json:"headers"`
	Required []string `json:"required"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	defs := importer.Categories()
	infos := make([]categoryInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, categoryInfo{
			Key:      string(def.Key),
			Label:    def.Label,
			Headers:  def.Headers,
			Required: def.Required,
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List(r.Context(), 50)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleExportRunErrors serves a run's row-level messages as a CSV report
// staff can hand back to whoever prepared the file.
func (s *Server) handleExportRunErrors(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	records := [][]string{{"message"}}
	for _, msg := range run.Errors {
		records = append(records, []string{msg})
	}
	data, err := csvio.Encode(records)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "import_errors_"+run.ID.String()+".csv"))
	w.Write(data)
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (history.Run, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("invalid run id: %w", err), http.StatusBadRequest)
		return history.Run{}, false
	}

	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.respondError(w, r, err, http.StatusNotFound)
		} else {
			s.respondError(w, r, err, http.StatusInternalServerError)
		}
		return history.Run{}, false
	}
	return run, true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
