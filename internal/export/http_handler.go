package export

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/auth"
	"github.com/pulsehq/demosnap/internal/repository"
)

// Handler streams snapshot exports over HTTP.
type Handler struct {
	service   *Service
	snapshots repository.SnapshotStore
}

// NewHTTPHandler creates the export endpoint handler.
func NewHTTPHandler(service *Service, snapshots repository.SnapshotStore) http.Handler {
	return &Handler{service: service, snapshots: snapshots}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

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

	snapshot, err := h.snapshots.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("snapshot not found: %v", err), http.StatusNotFound)
		return
	}
	if err := auth.EnforceCompanyScope(r.Context(), snapshot.CompanyID); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "xlsx"
	}

	filename := fmt.Sprintf("snapshot-v%d.%s", snapshot.Version, format)
	switch format {
	case "xlsx":
		file, err := h.service.BuildWorkbook(snapshot)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to build workbook: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := file.Write(w); err != nil {
			http.Error(w, fmt.Sprintf("failed to write workbook: %v", err), http.StatusInternalServerError)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := h.service.WriteCSV(w, snapshot); err != nil {
			http.Error(w, fmt.Sprintf("failed to write csv: %v", err), http.StatusInternalServerError)
		}
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
	}
}
