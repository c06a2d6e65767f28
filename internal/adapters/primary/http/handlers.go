package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 64 << 10

// Error codes reported in ErrorResponse
const (
	CodeInvalidPayload   = "invalid_payload"
	CodeInvalidTimecode  = "invalid_timecode"
	CodeInvalidTimeField = "invalid_time_field"
	CodeInvalidDevice    = "invalid_device"
	CodeSessionClosed    = "session_closed"
	CodeInternal         = "internal_error"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MutationResponse is returned by every editing endpoint. Applied is false when
// the target id was unknown; the state is then unchanged.
type MutationResponse struct {
	Applied bool                 `json:"applied"`
	Hotspot *entities.Hotspot    `json:"hotspot,omitempty"`
	CTA     *entities.CTA        `json:"cta,omitempty"`
	State   entities.SessionView `json:"state"`
}

// SelectionRequest selects a hotspot; an empty id deselects
type SelectionRequest struct {
	ID string `json:"id"`
}

// DeviceRequest switches the preview device
type DeviceRequest struct {
	Device string `json:"device"`
}

// TimeFieldRequest carries an M:SS.CC value typed into the editing panel
type TimeFieldRequest struct {
	Value string `json:"value"`
}

// handleEditor serves the editor shell page
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		s.handleError(w, errors.New("no renderer configured"), http.StatusInternalServerError, CodeInternal)
		return
	}

	page := s.Page()
	page.Devices = entities.DeviceOptions(s.session.View().Device)

	start := time.Now()
	html, err := s.renderer.RenderEditor(r.Context(), page)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError, CodeInternal)
		return
	}
	s.monitor.RecordEditorRender(time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		s.logger.Error("Failed to write editor response: %v", err)
	}
}

// handleMedia streams the video source
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	media := s.media
	s.mu.RUnlock()

	if media == nil || s.session.Closed() {
		http.NotFound(w, r)
		return
	}
	media.ServeHTTP(w, r)
}

// handleState returns the current render model
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, sanitizeView(s.session.View()))
}

// handleMetrics returns the bridge activity counters
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.monitor.Metrics())
}

// handleListHotspots returns every hotspot and the selection
func (s *Server) handleListHotspots(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleCloseSession discards all hotspots and releases the video
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.session.Close()
	w.WriteHeader(http.StatusNoContent)
}

// handleSetDevice switches the preview device
func (s *Server) handleSetDevice(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var req DeviceRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	device, err := entities.ParseDevice(req.Device)
	if err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidDevice)
		return
	}

	s.session.SetDevice(device)
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: true})
}

// handleSelect sets or clears the selection
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var req SelectionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	s.session.Select(req.ID)
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: true})
}

// handleCreateHotspot adds a hotspot from a full draft
func (s *Server) handleCreateHotspot(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var draft entities.HotspotDraft
	if err := decodeJSON(w, r, &draft, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}
	if err := validateDraft(draft); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	h := s.session.AddHotspot(draft)
	s.writeMutation(w, http.StatusCreated, MutationResponse{Applied: true, Hotspot: &h})
}

// handleUpdateHotspot shallow-merges a patch into a hotspot
func (s *Server) handleUpdateHotspot(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var patch entities.HotspotPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}
	if err := validatePatch(patch); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	applied := s.session.UpdateHotspot(mux.Vars(r)["id"], patch)
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// handleDeleteHotspot removes a hotspot and its CTAs
func (s *Server) handleDeleteHotspot(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	applied := s.session.DeleteHotspot(mux.Vars(r)["id"])
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// handleSetTime parses an M:SS.CC value into the start or end of a hotspot
func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	field, err := entities.ParseTimeField(vars["field"])
	if err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidTimeField)
		return
	}

	var req TimeFieldRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	switch err := s.session.SetTimeField(vars["id"], field, req.Value); {
	case errors.Is(err, services.ErrSessionClosed):
		s.handleError(w, err, http.StatusGone, CodeSessionClosed)
		return
	case errors.Is(err, entities.ErrInvalidTimecode):
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidTimecode)
		return
	case err != nil:
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	_, applied := findHotspot(s.session.Snapshot(), vars["id"])
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// handleCreateCTA appends a CTA; an empty body creates the default message CTA
func (s *Server) handleCreateCTA(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var draft entities.CTADraft
	if err := decodeJSON(w, r, &draft, true); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}
	if draft.Type != "" && !draft.Type.Valid() {
		s.handleError(w, fmt.Errorf("unknown CTA type %q", draft.Type), http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	cta, applied := s.session.AddCTA(mux.Vars(r)["id"], draft)
	resp := MutationResponse{Applied: applied}
	status := http.StatusOK
	if applied {
		resp.CTA = &cta
		status = http.StatusCreated
	}
	s.writeMutation(w, status, resp)
}

// handleUpdateCTA shallow-merges a CTA patch
func (s *Server) handleUpdateCTA(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	var patch entities.CTAPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}
	if err := validateCTAPatch(patch); err != nil {
		s.handleError(w, err, http.StatusBadRequest, CodeInvalidPayload)
		return
	}

	vars := mux.Vars(r)
	applied := s.session.UpdateCTA(vars["id"], vars["ctaId"], patch)
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// handleDeleteCTA removes a CTA from its hotspot
func (s *Server) handleDeleteCTA(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	vars := mux.Vars(r)
	applied := s.session.DeleteCTA(vars["id"], vars["ctaId"])
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// handleClickCTA dispatches a CTA of an active hotspot
func (s *Server) handleClickCTA(w http.ResponseWriter, r *http.Request) {
	if s.rejectClosed(w) {
		return
	}

	vars := mux.Vars(r)
	applied := s.session.ClickCTA(vars["id"], vars["ctaId"])
	s.writeMutation(w, http.StatusOK, MutationResponse{Applied: applied})
}

// rejectClosed answers 410 once the session is closed
func (s *Server) rejectClosed(w http.ResponseWriter) bool {
	if !s.session.Closed() {
		return false
	}
	s.handleError(w, services.ErrSessionClosed, http.StatusGone, CodeSessionClosed)
	return true
}

// handleError writes a JSON error. Client errors echo the cause; server errors
// are reduced to a generic message.
func (s *Server) handleError(w http.ResponseWriter, err error, status int, code string) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
		message = "Internal server error"
	} else {
		s.logger.Debug("Rejected request (status %d, %s): %v", status, code, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code}); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// writeMutation fills in the post-mutation state and writes resp
func (s *Server) writeMutation(w http.ResponseWriter, status int, resp MutationResponse) {
	s.monitor.RecordMutation(resp.Applied)
	resp.State = sanitizeView(s.session.View())
	s.writeJSON(w, status, resp)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.handleError(w, fmt.Errorf("encoding response: %w", err), http.StatusInternalServerError, CodeInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Error("Failed to write JSON response: %v", err)
	}
}

// decodeJSON reads a bounded JSON body into dst. An empty body is an error
// unless allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func validateDraft(d entities.HotspotDraft) error {
	if d.Shape != "" && !d.Shape.Valid() {
		return fmt.Errorf("unknown shape %q", d.Shape)
	}
	return validateCTAs(d.CTAs)
}

func validatePatch(p entities.HotspotPatch) error {
	if p.Shape != nil && !p.Shape.Valid() {
		return fmt.Errorf("unknown shape %q", *p.Shape)
	}
	if p.CTAs != nil {
		return validateCTAs(*p.CTAs)
	}
	return nil
}

func validateCTAs(ctas []entities.CTA) error {
	for _, cta := range ctas {
		if !cta.Type.Valid() {
			return fmt.Errorf("unknown CTA type %q", cta.Type)
		}
	}
	return nil
}

func validateCTAPatch(p entities.CTAPatch) error {
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("unknown CTA type %q", *p.Type)
	}
	if p.ButtonStyle != nil && p.ButtonStyle.FontSize != nil && !p.ButtonStyle.FontSize.Valid() {
		return fmt.Errorf("unsupported font size %q", *p.ButtonStyle.FontSize)
	}
	return nil
}

func findHotspot(snap entities.StoreSnapshot, id string) (entities.Hotspot, bool) {
	for _, h := range snap.Hotspots {
		if h.ID == id {
			return h, true
		}
	}
	return entities.Hotspot{}, false
}
