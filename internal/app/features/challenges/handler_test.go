package challenges_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hack24/api/internal/app/features/challenges"
	"github.com/hack24/api/internal/testutil"
	"go.uber.org/zap"
)

type challengeDoc struct {
	Links struct {
		Self string `json:"self"`
	} `json:"links"`
	Data struct {
		Type       string `json:"type"`
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
}

type challengeListDoc struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func TestCreate_SlugIDFromName(t *testing.T) {
	store := &testutil.FakeChallenges{}
	handler := challenges.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("POST", "/challenges",
		testutil.ResourceBody("challenges", "", map[string]any{"name": "Best Hack"}))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var doc challengeDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if doc.Data.ID != "best-hack" {
		t.Errorf("id: got %q, want %q", doc.Data.ID, "best-hack")
	}
	if doc.Data.Attributes.Name != "Best Hack" {
		t.Errorf("name: got %q", doc.Data.Attributes.Name)
	}
	if doc.Links.Self != "/challenges/best-hack" {
		t.Errorf("self: got %q", doc.Links.Self)
	}
}

func TestCreate_DuplicateNameConflicts(t *testing.T) {
	store := &testutil.FakeChallenges{}
	handler := challenges.NewHandler(store, zap.NewNop())

	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest("POST", "/challenges",
			testutil.ResourceBody("challenges", "", map[string]any{"name": "Best Hack"}))
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		if rec.Code != wantStatus {
			t.Fatalf("attempt %d: status got %d, want %d", i+1, rec.Code, wantStatus)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"client-supplied id", `{"data":{"type":"challenges","id":"sneaky","attributes":{"name":"x"}}}`},
		{"wrong type", `{"data":{"type":"teams","attributes":{"name":"x"}}}`},
		{"missing attributes", `{"data":{"type":"challenges"}}`},
		{"missing name", `{"data":{"type":"challenges","attributes":{}}}`},
		{"mistyped name", `{"data":{"type":"challenges","attributes":{"name":42}}}`},
		{"blank name", `{"data":{"type":"challenges","attributes":{"name":"   "}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &testutil.FakeChallenges{}
			handler := challenges.NewHandler(store, zap.NewNop())

			req := httptest.NewRequest("POST", "/challenges", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
			if len(store.Challenges) != 0 {
				t.Errorf("store should be untouched, has %d challenges", len(store.Challenges))
			}
		})
	}
}

func TestList_FilterByName(t *testing.T) {
	store := &testutil.FakeChallenges{}
	store.AddChallenge("best-iot-hack", "Best IoT Hack")
	store.AddChallenge("best-hack", "Best Hack")
	store.AddChallenge("peoples-choice", "Peoples Choice")
	handler := challenges.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/challenges?filter[name]=best", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc challengeListDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(doc.Data) != 2 {
		t.Fatalf("data: got %d entries, want 2", len(doc.Data))
	}
	// Sorted by challengeid.
	if doc.Data[0].ID != "best-hack" || doc.Data[1].ID != "best-iot-hack" {
		t.Errorf("ids: got %q, %q", doc.Data[0].ID, doc.Data[1].ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	handler := challenges.NewHandler(&testutil.FakeChallenges{}, zap.NewNop())

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/challenges/nope", nil), "challengeID", "nope")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	store := &testutil.FakeChallenges{}
	store.AddChallenge("best-hack", "Best Hack")
	handler := challenges.NewHandler(store, zap.NewNop())

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/challenges/best-hack", nil), "challengeID", "best-hack")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if len(store.Challenges) != 0 {
		t.Errorf("challenge was not removed")
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/challenges/best-hack", nil), "challengeID", "best-hack"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
}
