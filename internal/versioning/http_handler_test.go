package versioning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/auth"
	"github.com/pulsehq/demosnap/internal/repository"
)

func TestHandlerCreateSnapshot(t *testing.T) {
	companyID := uuid.New()
	store := &stubSnapshotStore{}
	service := newTestService(store, &stubDirectory{users: directoryUsers("u1")},
		&stubSurveys{scope: repository.SurveyScope{CompanyID: companyID}}, &stubAudit{})
	handler := NewHTTPHandler(service)

	body := fmt.Sprintf(`{"surveyId":%q,"companyId":%q,"createdBy":"alice","reason":"capture"}`,
		uuid.New(), companyID)
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if payload["version"] != float64(1) {
		t.Errorf("expected version 1 in response, got %v", payload["version"])
	}
}

func TestHandlerCreateSnapshotValidation(t *testing.T) {
	companyID := uuid.New()
	service := newTestService(&stubSnapshotStore{}, &stubDirectory{users: directoryUsers("u1")},
		&stubSurveys{scope: repository.SurveyScope{CompanyID: companyID}}, &stubAudit{})
	handler := NewHTTPHandler(service)

	// Missing reason maps to 400.
	body := fmt.Sprintf(`{"surveyId":%q,"companyId":%q,"createdBy":"alice"}`, uuid.New(), companyID)
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing reason, got %d", recorder.Code)
	}

	// Malformed survey id maps to 400.
	req = httptest.NewRequest(http.MethodPost, "/api/snapshots",
		strings.NewReader(`{"surveyId":"nope","companyId":"nope","reason":"r"}`))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ids, got %d", recorder.Code)
	}
}

func TestHandlerCompanyScopeMismatch(t *testing.T) {
	companyID := uuid.New()
	service := newTestService(&stubSnapshotStore{}, &stubDirectory{users: directoryUsers("u1")},
		&stubSurveys{scope: repository.SurveyScope{CompanyID: companyID}}, &stubAudit{})
	handler := NewHTTPHandler(service)

	body := fmt.Sprintf(`{"surveyId":%q,"companyId":%q,"createdBy":"alice","reason":"capture"}`,
		uuid.New(), companyID)
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", strings.NewReader(body))
	req = req.WithContext(auth.ContextWithCompanyID(context.Background(), uuid.New()))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Errorf("expected 403 for scope mismatch, got %d", recorder.Code)
	}
}

func TestHandlerRollbackMissingVersion(t *testing.T) {
	companyID := uuid.New()
	service := newTestService(&stubSnapshotStore{}, &stubDirectory{},
		&stubSurveys{scope: repository.SurveyScope{CompanyID: companyID}}, &stubAudit{})
	handler := NewHTTPHandler(service)

	body := fmt.Sprintf(`{"surveyId":%q,"targetVersion":3,"rolledBackBy":"bob","reason":"undo"}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots/rollback", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing target version, got %d", recorder.Code)
	}
}

func TestHandlerHistoryAndGet(t *testing.T) {
	companyID := uuid.New()
	surveyID := uuid.New()
	store := &stubSnapshotStore{}
	directory := &stubDirectory{}
	service := newTestService(store, directory,
		&stubSurveys{scope: repository.SurveyScope{CompanyID: companyID}}, &stubAudit{})
	handler := NewHTTPHandler(service)

	createVersions(t, service, directory, surveyID, companyID, [][]string{{"u1"}, {"u1", "u2"}})

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots?surveyId="+surveyID.String(), nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for history, got %d", recorder.Code)
	}
	var history []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &history); err != nil {
		t.Fatalf("invalid history body: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0]["version"] != float64(2) {
		t.Errorf("expected newest-first history, got %v", history[0]["version"])
	}

	id := history[0]["id"].(string)
	req = httptest.NewRequest(http.MethodGet, "/api/snapshots/"+id, nil)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 for get by id, got %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/snapshots/"+uuid.NewString(), nil)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", recorder.Code)
	}
}
