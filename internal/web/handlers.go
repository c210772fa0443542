package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/applicants/internal/core"
	"github.com/JonMunkholm/applicants/internal/logging"
	"github.com/JonMunkholm/applicants/internal/web/templates"
)

// multipartOverhead is headroom for form boundaries and headers on top of
// the file size limit.
const multipartOverhead = 64 * 1024

// IngestResponse is the JSON reply to an ingest.
type IngestResponse struct {
	core.IngestResult
	DurationMS    int64 `json:"duration_ms"`
	Records       int   `json:"records"`
	SessionParsed bool  `json:"session_parsed"`
}

// StatusResponse reports server load.
type StatusResponse struct {
	Sessions int                      `json:"sessions"`
	Ingests  core.IngestLimiterStatus `json:"ingests"`
}

// handleIndex renders the main page for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Page(templates.PageData{
		View:     sess.View(),
		Debounce: s.cfg.Session.SearchDebounce,
		MaxSize:  s.cfg.Upload.MaxFileSize,
	})
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleIngest loads one uploaded CSV into the caller's session. At most
// Upload.MaxConcurrent ingests parse at once across all sessions.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := sessionFrom(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(w, r, &core.FileAccessError{Err: core.ErrFileTooLarge})
			return
		}
		s.respondError(w, r, &core.FileAccessError{Err: fmt.Errorf("parse form: %w", err)})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, &core.FileAccessError{Err: core.ErrNoFile})
		return
	}
	defer file.Close()

	logger := logging.WithFields(ctx, "session_id", sess.ID, "file", header.Filename, "size", header.Size)
	logger.Info("ingest started")

	var result core.IngestResult
	err = s.limiter.Run(ctx, func() error {
		var ingestErr error
		result, ingestErr = sess.IngestReader(ctx, header.Filename, file)
		return ingestErr
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view := sess.View()
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("HX-Trigger", "ingested")
		_ = templates.Results(templates.ResultsData{View: view, Ingest: &result}).Render(ctx, w)
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		IngestResult:  result,
		DurationMS:    result.Duration.Milliseconds(),
		Records:       view.Records,
		SessionParsed: view.Parsed,
	})
}

// handleSearch reranks the session's cards for q and returns them best first.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess.Search(r.URL.Query().Get("q"))
	s.respondView(w, r, sess.View())
}

// handleCards returns the current display without rescoring.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, sess.View())
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, view core.View) {
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.Results(templates.ResultsData{View: view}).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleReset drops the caller's session and everything loaded into it.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.sessions.Delete(sess.ID)
	s.setSessionCookie(w, "", -1)
	logging.FromContext(r.Context()).Info("session reset", "session_id", sess.ID)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.Results(templates.ResultsData{}).Render(r.Context(), w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus reports live sessions and ingest slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Sessions: s.sessions.Len(),
		Ingests:  s.limiter.Status(),
	})
}

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
