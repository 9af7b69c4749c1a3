package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"footin-engine/internal/apperr"
	"footin-engine/internal/workflow"
)

type SessionsHandler struct {
	Controller *workflow.Controller
	Log        *zap.Logger
}

func (h SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Controller.CreateSession()
	WriteJSON(w, http.StatusCreated, s.Snapshot())
}

func (h SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.Snapshot())
}

type setTargetsReq struct {
	Companies []string `json:"companies"`
	Roles     []string `json:"roles"`
}

func (h SessionsHandler) SetTargets(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setTargetsReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := s.SetTargets(req.Companies, req.Roles); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, s.Snapshot())
}

type discoverReq struct {
	Fresh         bool   `json:"fresh"`
	Location      string `json:"location"`
	RecencyWindow string `json:"recencyWindow"`
}

// Discover kicks off an async discovery run and returns 202 immediately.
// Progress arrives on the event stream; the snapshot shows processing.
func (h SessionsHandler) Discover(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req discoverReq
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}

	dr, err := s.BeginDiscovery(req.Location, req.RecencyWindow)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	go h.Controller.RunDiscovery(runCtx(), s, dr, req.Fresh)
	WriteJSON(w, http.StatusAccepted, s.Snapshot())
}

func (h SessionsHandler) SelectJob(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "job id must be an integer")
		return
	}
	if err := s.ToggleJob(id); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, s.Snapshot())
}

func (h SessionsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	er, err := s.BeginExtraction()
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	go h.Controller.RunExtraction(runCtx(), s, er)
	WriteJSON(w, http.StatusAccepted, s.Snapshot())
}

func (h SessionsHandler) SelectContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.ToggleContact(chi.URLParam(r, "contactID")); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, s.Snapshot())
}

type backReq struct {
	Phase string `json:"phase"`
}

func (h SessionsHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req backReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := s.Back(workflow.Phase(req.Phase)); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, s.Snapshot())
}

func (h SessionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	writeJSON(w, s.Snapshot())
}

func (h SessionsHandler) session(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, ok := h.Controller.Session(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "session_not_found", "no session with id "+id)
		return nil, false
	}
	return s, true
}

// writeSessionError sends phase-guard violations as 409 so a UI can tell
// "you're in the wrong phase" apart from bad input.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) && ve.Field == "phase" {
		WriteError(w, r, http.StatusConflict, "phase_conflict", err.Error())
		return
	}
	WriteAppError(w, r, err)
}
