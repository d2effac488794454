package versioning

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/auth"
	"github.com/pulsehq/demosnap/internal/domain"
)

// Handler exposes the versioning operations as a REST surface.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service for mounting under /api/snapshots.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/compare"):
		h.handleCompare(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/rollback"):
		h.handleRollback(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/archive"):
		h.handleArchive(w, r)
	case r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case r.Method == http.MethodGet && r.URL.Query().Get("surveyId") != "":
		h.handleHistory(w, r)
	case r.Method == http.MethodGet:
		h.handleGet(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type createSnapshotPayload struct {
	SurveyID        string `json:"surveyId"`
	CompanyID       string `json:"companyId"`
	CreatedBy       string `json:"createdBy"`
	Reason          string `json:"reason"`
	IncludeInactive bool   `json:"includeInactive"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload createSnapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	surveyID, err := uuid.Parse(strings.TrimSpace(payload.SurveyID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid surveyId: %v", err), http.StatusBadRequest)
		return
	}
	companyID, err := uuid.Parse(strings.TrimSpace(payload.CompanyID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid companyId: %v", err), http.StatusBadRequest)
		return
	}
	if err := auth.EnforceCompanyScope(r.Context(), companyID); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	snapshot, err := h.service.CreateSnapshot(r.Context(), CreateSnapshotRequest{
		SurveyID:        surveyID,
		CompanyID:       companyID,
		CreatedBy:       payload.CreatedBy,
		Reason:          payload.Reason,
		IncludeInactive: payload.IncludeInactive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

type comparePayload struct {
	SnapshotIDA string `json:"snapshotIdA"`
	SnapshotIDB string `json:"snapshotIdB"`
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload comparePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	idA, err := uuid.Parse(strings.TrimSpace(payload.SnapshotIDA))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid snapshotIdA: %v", err), http.StatusBadRequest)
		return
	}
	idB, err := uuid.Parse(strings.TrimSpace(payload.SnapshotIDB))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid snapshotIdB: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.CompareSnapshots(r.Context(), idA, idB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rollbackPayload struct {
	SurveyID      string `json:"surveyId"`
	TargetVersion int64  `json:"targetVersion"`
	RolledBackBy  string `json:"rolledBackBy"`
	Reason        string `json:"reason"`
}

func (h *Handler) handleRollback(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload rollbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	surveyID, err := uuid.Parse(strings.TrimSpace(payload.SurveyID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid surveyId: %v", err), http.StatusBadRequest)
		return
	}
	if payload.TargetVersion < 1 {
		http.Error(w, "targetVersion must be a positive integer", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.RollbackToSnapshot(r.Context(), surveyID, payload.TargetVersion, payload.RolledBackBy, payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

type archivePayload struct {
	SurveyID     string `json:"surveyId"`
	KeepVersions int    `json:"keepVersions"`
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload archivePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	surveyID, err := uuid.Parse(strings.TrimSpace(payload.SurveyID))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid surveyId: %v", err), http.StatusBadRequest)
		return
	}

	archived, err := h.service.ArchiveOldSnapshots(r.Context(), surveyID, payload.KeepVersions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"archivedCount": archived})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	surveyID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("surveyId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid surveyId: %v", err), http.StatusBadRequest)
		return
	}

	history, err := h.service.GetHistory(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx == -1 || idx == len(path)-1 {
		http.Error(w, "missing snapshot identifier", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(path[idx+1:])
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid snapshot identifier: %v", err), http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidReason), errors.Is(err, domain.ErrEmptyDemographics):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSnapshotNotFound), errors.Is(err, domain.ErrVersionNotFound), errors.Is(err, domain.ErrSurveyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
