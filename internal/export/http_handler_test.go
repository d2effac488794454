package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/auth"
	"github.com/pulsehq/demosnap/internal/domain"
)

type fixedStore struct {
	snapshot domain.Snapshot
}

func (s *fixedStore) GetByID(_ context.Context, id uuid.UUID) (domain.Snapshot, error) {
	if id != s.snapshot.ID {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return s.snapshot, nil
}

func (s *fixedStore) NextVersion(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (s *fixedStore) Save(_ context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	return snap, nil
}
func (s *fixedStore) FindLatest(context.Context, uuid.UUID) (domain.Snapshot, error) {
	return domain.Snapshot{}, domain.ErrSnapshotNotFound
}
func (s *fixedStore) FindByVersion(context.Context, uuid.UUID, int64) (domain.Snapshot, error) {
	return domain.Snapshot{}, domain.ErrVersionNotFound
}
func (s *fixedStore) ListBySurvey(context.Context, uuid.UUID) ([]domain.Snapshot, error) {
	return nil, nil
}
func (s *fixedStore) Archive(context.Context, uuid.UUID) error { return nil }

func exportFixture() domain.Snapshot {
	snapshot := sampleSnapshot()
	snapshot.ID = uuid.New()
	snapshot.CompanyID = uuid.New()
	snapshot.Version = 3
	return snapshot
}

func TestExportHandlerCSV(t *testing.T) {
	snapshot := exportFixture()
	handler := NewHTTPHandler(NewService(), &fixedStore{snapshot: snapshot})

	req := httptest.NewRequest(http.MethodGet, "/api/export/snapshots/"+snapshot.ID.String()+"?format=csv", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("unexpected content type %q", got)
	}
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="snapshot-v3.csv"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if !strings.HasPrefix(recorder.Body.String(), "User ID,Department,") {
		t.Errorf("unexpected body prefix: %q", recorder.Body.String()[:40])
	}
}

func TestExportHandlerXLSXDefault(t *testing.T) {
	snapshot := exportFixture()
	handler := NewHTTPHandler(NewService(), &fixedStore{snapshot: snapshot})

	req := httptest.NewRequest(http.MethodGet, "/api/export/snapshots/"+snapshot.ID.String(), nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="snapshot-v3.xlsx"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if recorder.Body.Len() == 0 {
		t.Error("expected workbook bytes in response")
	}
}

func TestExportHandlerErrors(t *testing.T) {
	snapshot := exportFixture()
	handler := NewHTTPHandler(NewService(), &fixedStore{snapshot: snapshot})

	req := httptest.NewRequest(http.MethodGet, "/api/export/snapshots/"+uuid.NewString(), nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown snapshot, got %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/export/snapshots/"+snapshot.ID.String()+"?format=pdf", nil)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported format, got %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/export/snapshots/"+snapshot.ID.String(), nil)
	req = req.WithContext(auth.ContextWithCompanyID(context.Background(), uuid.New()))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign company scope, got %d", recorder.Code)
	}
}
