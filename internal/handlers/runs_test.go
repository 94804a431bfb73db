package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/service"
)

func getJSON(t *testing.T, s *service.Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header = authHeader(testToken)
	r.ServeHTTP(w, req)
	return w
}

func TestListRuns_ParsesFilters(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantFrom   time.Time
		wantTo     time.Time
		wantStatus string
	}{
		{
			name: "no filters",
		},
		{
			name:     "rfc3339",
			query:    "?from=2026-08-01T10:00:00%2B02:00&to=2026-08-02T00:00:00Z",
			wantFrom: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date only covers whole day",
			query:    "?from=2026-08-01&to=2026-08-01",
			wantFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 8, 1, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:       "datetime and status",
			query:      "?from=2026-08-01%2012:30:00&status=FAILED",
			wantFrom:   time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
			wantStatus: "failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rl := &mockRunLog{resp: []models.SolveRecord{{ID: "a"}, {ID: "b"}}}
			w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/"+tc.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			f := rl.lastFilter
			if !f.From.Equal(tc.wantFrom) || !f.To.Equal(tc.wantTo) || f.Status != tc.wantStatus {
				t.Fatalf("filter %+v, want from=%v to=%v status=%q", f, tc.wantFrom, tc.wantTo, tc.wantStatus)
			}
			var out struct {
				Count int                  `json:"count"`
				Runs  []models.SolveRecord `json:"runs"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Count != 2 || len(out.Runs) != 2 {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}
}

func TestListRuns_RejectsBadQuery(t *testing.T) {
	for _, q := range []string{
		"?from=yesterday",
		"?to=2026-13-01",
		"?from=2026-08-02&to=2026-08-01",
		"?status=pending",
	} {
		rl := &mockRunLog{}
		w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/"+q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d, want 400", q, w.Code)
		}
	}
}

func TestListRuns_ServiceError(t *testing.T) {
	rl := &mockRunLog{err: errors.New("db down")}
	w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGetRun(t *testing.T) {
	rl := &mockRunLog{rec: models.SolveRecord{ID: "abc", Status: models.StatusOK, Profile: json.RawMessage(`{"n":5}`)}}
	w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/abc")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if rl.lastID != "abc" {
		t.Fatalf("id=%q", rl.lastID)
	}
	var got models.SolveRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "abc" || string(got.Profile) != `{"n":5}` {
		t.Fatalf("unexpected record: %+v", got)
	}

	rl = &mockRunLog{err: service.ErrRunNotFound}
	if w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/missing"); w.Code != http.StatusNotFound {
		t.Fatalf("missing: status=%d", w.Code)
	}
	rl = &mockRunLog{err: errors.New("boom")}
	if w := getJSON(t, &service.Service{RunLog: rl}, "/api/v1/runs/abc"); w.Code != http.StatusInternalServerError {
		t.Fatalf("error: status=%d", w.Code)
	}
}

func TestGetSummary(t *testing.T) {
	sum := &mockSummary{sum: models.RunSummary{Total: 3, Failed: 1, ByKind: map[string]int{"pinch_infeasible": 1}, LastRunID: "c"}}
	w := getJSON(t, &service.Service{Summary: sum}, "/api/v1/runs/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got models.RunSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Total != 3 || got.Failed != 1 || got.ByKind["pinch_infeasible"] != 1 || got.LastRunID != "c" {
		t.Fatalf("unexpected summary: %+v", got)
	}

	sum = &mockSummary{err: errors.New("boom")}
	if w := getJSON(t, &service.Service{Summary: sum}, "/api/v1/runs/summary"); w.Code != http.StatusInternalServerError {
		t.Fatalf("error: status=%d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	if _, err := parseQueryTime("2026/08/01"); err == nil {
		t.Fatalf("expected error for slash date")
	}
	got, err := parseQueryTime("2026-08-01 01:02:03")
	if err != nil || !got.Equal(time.Date(2026, 8, 1, 1, 2, 3, 0, time.UTC)) {
		t.Fatalf("got %v, %v", got, err)
	}
	if isDateOnly("2026-08-01T00:00:00Z") || !isDateOnly("2026-08-01") {
		t.Fatalf("isDateOnly misclassified")
	}
}
