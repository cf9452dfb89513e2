// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"repradar-go/internal/actionable"
	"repradar-go/internal/config"
	"repradar-go/internal/dataset"
	"repradar-go/internal/logger"
	"repradar-go/internal/processor"
	"repradar-go/internal/provider"
	"repradar-go/internal/report"
	"repradar-go/internal/types"
)

const missingAudioMsg = "Please upload an audio file or provide an audio URL"

type Server struct {
	cfg  *config.Config
	proc *processor.Processor
	log  *logger.Logger
}

func New(cfg *config.Config, proc *processor.Processor, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{cfg: cfg, proc: proc, log: log}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("POST /analyze", s.analyze)
	mux.HandleFunc("POST /batch", s.batch)
	mux.HandleFunc("GET /playbook", s.playbook)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "analyze")
	reqLog.Info("analyze request received")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := parseForm(r, s.cfg.MaxUploadBytes()); err != nil {
		reqLog.WithError(err).Warn("bad form")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	format, err := report.NormalizeFormat(r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	audio, err := audioFromRequest(r)
	if err != nil {
		reqLog.WithError(err).Warn("reading upload failed")
		http.Error(w, "could not read uploaded file", http.StatusBadRequest)
		return
	}
	if audio.Empty() {
		reqLog.Warn("no audio in request")
		http.Error(w, missingAudioMsg, http.StatusBadRequest)
		return
	}

	res, err := s.proc.Process(r.Context(), processor.Request{
		Audio:  audio,
		APIKey: r.FormValue("api_key"),
		CallID: r.FormValue("call_id"),
	})
	status := statusFor(err)
	reqLog = reqLog.WithField("session_id", res.SessionID).WithField("duration_ms", res.DurationMs)
	if err != nil {
		reqLog.WithError(err).WithField("status", status).Warn("analysis failed")
	} else {
		reqLog.Info("analysis done")
	}

	if format == report.FormatXLSX {
		s.writeWorkbook(w, status, "repradar-call.xlsx", func(buf io.Writer) error {
			return report.WriteCall(buf, res)
		})
		return
	}
	s.writeDoc(w, status, format, res)
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "batch")
	reqLog.Info("batch request received")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := parseForm(r, s.cfg.MaxUploadBytes()); err != nil {
		reqLog.WithError(err).Warn("bad form")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	format, err := report.NormalizeFormat(r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := s.cfg.BatchLimit
	if v := r.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.loadDataset(r)
	if err != nil {
		reqLog.WithError(err).Warn("dataset load error")
		http.Error(w, "dataset load error: "+err.Error(), http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("records", len(records)).WithField("limit", limit)
	reqLog.Info("processing dataset")

	res := s.proc.ProcessBatch(r.Context(), records, limit, r.FormValue("api_key"))
	reqLog.WithField("failed", res.Insight.Failed).Info("batch done")

	if format == report.FormatXLSX {
		s.writeWorkbook(w, http.StatusOK, "repradar-batch.xlsx", func(buf io.Writer) error {
			return report.WriteBatch(buf, res)
		})
		return
	}
	s.writeDoc(w, http.StatusOK, format, res)
}

func (s *Server) playbook(w http.ResponseWriter, r *http.Request) {
	format, err := report.NormalizeFormat(r.URL.Query().Get("format"))
	if err != nil || format == report.FormatXLSX {
		format = report.FormatJSON
	}
	s.writeDoc(w, http.StatusOK, format, actionable.Playbook())
}

func (s *Server) loadDataset(r *http.Request) ([]types.CallRecord, error) {
	f, _, err := r.FormFile("dataset")
	switch {
	case err == nil:
		defer f.Close()
		return dataset.LoadReader(f)
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return nil, err
	}
	path := r.FormValue("dataset_path")
	if path == "" {
		path = s.cfg.DatasetPath
	}
	if path == "" {
		return nil, errors.New("no dataset uploaded and no dataset_path configured")
	}
	return dataset.Load(path)
}

func (s *Server) writeDoc(w http.ResponseWriter, status int, format string, v any) {
	var buf bytes.Buffer
	if err := report.Encode(&buf, format, v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", report.ContentType(format))
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Error("failed to write response")
	}
}

func (s *Server) writeWorkbook(w http.ResponseWriter, status int, name string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.log.WithError(err).Error("failed to render workbook")
		http.Error(w, "failed to render workbook", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", report.ContentType(report.FormatXLSX))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Error("failed to write response")
	}
}

// parseForm handles multipart bodies as well as plain form or query requests.
func parseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// audioFromRequest prefers an uploaded file over an audio_url field.
func audioFromRequest(r *http.Request) (types.AudioSource, error) {
	src := types.AudioSource{URL: strings.TrimSpace(r.FormValue("audio_url"))}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return src, nil
		}
		return src, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return src, err
	}
	src.FileName = hdr.Filename
	src.Data = data
	return src, nil
}

func statusFor(err error) int {
	var apiErr *provider.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, provider.ErrNoAudio):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrMissingAPIKey):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
