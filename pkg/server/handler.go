package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helmcode/triage-ai/pkg/analyzer"
	"github.com/helmcode/triage-ai/pkg/imaging"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/records"
	"github.com/helmcode/triage-ai/pkg/triage"
)

type Handler struct {
	an        *analyzer.Analyzer
	store     *records.Store
	maxUpload int64
}

func NewHandler(an *analyzer.Analyzer, store *records.Store, maxUpload int64) *Handler {
	return &Handler{an: an, store: store, maxUpload: maxUpload}
}

type SymptomsRequest struct {
	Text        string             `json:"text"`
	PainScale   int                `json:"pain_scale"`
	Duration    string             `json:"duration"`
	PatientName string             `json:"patient_name"`
	Age         int                `json:"age"`
	Queue       []model.QueueEntry `json:"queue,omitempty"`
}

type PositionRequest struct {
	Severity *float64           `json:"severity"`
	Queue    []model.QueueEntry `json:"queue,omitempty"`
}

type WaitRequest struct {
	Position int    `json:"position"`
	Priority string `json:"priority"`
}

type ResourcesRequest struct {
	Severity  *float64 `json:"severity"`
	Specialty string   `json:"specialty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AnalyzeSymptoms scores a description, places the patient against the
// session queue (or the queue in the request) and records them.
func (h *Handler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req SymptomsRequest
	if !decode(w, r, &req) {
		return
	}

	duration, err := model.ParseDuration(req.Duration)
	if err != nil {
		badRequest(w, err)
		return
	}
	in := model.SymptomRecord{
		Text:        req.Text,
		PainScale:   req.PainScale,
		Duration:    duration,
		PatientName: req.PatientName,
		Age:         req.Age,
	}

	var report *analyzer.SymptomReport
	analyze := func(queue []model.QueueEntry) (model.SymptomRecord, *model.SymptomAnalysis, error) {
		var err error
		report, err = h.an.AnalyzeSymptoms(in, queue)
		if err != nil {
			return model.SymptomRecord{}, nil, err
		}
		return report.Patient, report.Analysis, nil
	}

	var rec records.Record
	if req.Queue == nil {
		rec, err = h.store.Admit(analyze)
	} else if err = validateQueue(req.Queue); err == nil {
		var a *model.SymptomAnalysis
		if in, a, err = analyze(req.Queue); err == nil {
			rec = h.store.Add(in, a)
		}
	}
	if err != nil {
		badRequest(w, err)
		return
	}

	report.RecordID = rec.ID
	slog.Info("symptoms analyzed",
		"record", rec.ID,
		"priority", report.Analysis.Priority,
		"severity", report.Analysis.Severity,
		"position", report.Queue.Position,
	)
	writeJSON(w, http.StatusOK, report)
}

// AnalyzeImage accepts a multipart upload with an "image" file and an
// optional "image_type" field.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		tooLarge(w, h.maxUpload)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(w, h.maxUpload)
			return
		}
		badRequest(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	imageType, err := model.ParseImageType(r.FormValue("image_type"))
	if err != nil {
		badRequest(w, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		badRequest(w, errors.New("missing image file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, fmt.Errorf("failed to read image: %w", err))
		return
	}

	result, err := h.an.Images.AnalyzeBytes(data, imageType)
	if err != nil {
		var decodeErr *imaging.DecodeError
		if errors.As(err, &decodeErr) {
			slog.Warn("image decode failed", "kind", decodeErr.Kind, "format", decodeErr.Format)
			status := http.StatusUnprocessableEntity
			if errors.Is(err, imaging.ErrImageTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			writeJSON(w, status, result)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	slog.Info("image analyzed", "type", imageType, "severity", result.Severity, "review", result.RequiresReview)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) QueuePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validateSeverity(req.Severity); err != nil {
		badRequest(w, err)
		return
	}
	queue := req.Queue
	if queue == nil {
		queue = h.store.Queue()
	} else if err := validateQueue(queue); err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.an.Triage.Place(*req.Severity, queue))
}

func (h *Handler) EstimateWait(w http.ResponseWriter, r *http.Request) {
	var req WaitRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := model.ParsePriority(req.Priority)
	if err != nil {
		badRequest(w, err)
		return
	}
	wait, err := h.an.Triage.EstimateWait(req.Position, p)
	if err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QueuePlacement{
		Position: req.Position,
		Priority: p,
		Wait:     wait,
		WaitText: triage.FormatWait(wait),
	})
}

func (h *Handler) AllocateResources(w http.ResponseWriter, r *http.Request) {
	var req ResourcesRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validateSeverity(req.Severity); err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.an.Triage.AllocateResources(*req.Severity, req.Specialty))
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Summary())
}

// Queue returns the session's patients in treatment order.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.an.Triage.Order(h.store.Queue()))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/symptoms", h.AnalyzeSymptoms)
	r.Post("/images", h.AnalyzeImage)
	r.Post("/triage/position", h.QueuePosition)
	r.Post("/triage/wait", h.EstimateWait)
	r.Post("/triage/resources", h.AllocateResources)
	r.Get("/records", h.ListRecords)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/queue", h.Queue)
}

func validateSeverity(s *float64) error {
	if s == nil {
		return errors.New("severity is required")
	}
	if *s < model.MinSeverity || *s > model.MaxSeverity {
		return fmt.Errorf("severity must be between %v and %v, got %v", model.MinSeverity, model.MaxSeverity, *s)
	}
	return nil
}

// validateQueue normalises every entry's priority in place, accepting tier
// names in any case.
func validateQueue(queue []model.QueueEntry) error {
	for i, e := range queue {
		p, err := model.ParsePriority(string(e.Priority))
		if err != nil {
			return fmt.Errorf("queue entry %d: %w", i+1, err)
		}
		queue[i].Priority = p
	}
	return nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "bad_request", err.Error())
}

func tooLarge(w http.ResponseWriter, limit int64) {
	writeError(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("upload exceeds %d bytes", limit))
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
