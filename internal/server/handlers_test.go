package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	s, cleanup, err := New(t.Context(), Config{Addr: ":0"}, charmlog.NewWithOptions(io.Discard, charmlog.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	return s.Routes()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const rawPlanJSON = `{\"title\": \"Shop\", \"lanes\": [\"Application\", \"Data\"], ` +
	`\"nodes\": [{\"id\": \"api\", \"name\": \"API\", \"lane\": \"Application\", \"type\": \"service\"}, ` +
	`{\"id\": \"db\", \"name\": \"DB\", \"lane\": \"Data\", \"type\": \"data\"}], ` +
	`\"edges\": [{\"from\": \"api\", \"to\": \"db\"}]}`

func TestHealth(t *testing.T) {
	h := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGenerate(t *testing.T) {
	h := testServer(t)
	rec := postJSON(t, h, "/api/generate",
		`{"goal": "shop", "plan": "`+rawPlanJSON+`", "formats": ["xml", "svg"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AttemptID string            `json:"attempt_id"`
		PlanHash  string            `json:"plan_hash"`
		Artifacts map[string]string `json:"artifacts"`
		Report    struct {
			OK bool `json:"ok"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.AttemptID == "" || resp.PlanHash == "" {
		t.Error("missing attempt id or plan hash")
	}
	if !strings.Contains(resp.Artifacts["xml"], "mxGraphModel") {
		t.Error("xml artifact missing")
	}
	if !strings.Contains(resp.Artifacts["svg"], "<svg") {
		t.Error("svg artifact missing")
	}
	if !resp.Report.OK {
		t.Errorf("validation failed: %s", rec.Body.String())
	}
}

func TestGenerateBadRequests(t *testing.T) {
	h := testServer(t)
	tests := []struct {
		name     string
		body     string
		want     int
		wantCode string
	}{
		{"missing plan", `{"goal": "x"}`, http.StatusBadRequest, ""},
		{"invalid json", `{`, http.StatusBadRequest, ""},
		{"unknown field", `{"plan": "{}", "bogus": 1}`, http.StatusBadRequest, ""},
		{"bad mode", `{"plan": "{}", "mode": "mosaic"}`, http.StatusBadRequest, "INVALID_MODE"},
		{"bad format", `{"plan": "{}", "formats": ["tiff"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unparseable plan", `{"plan": "no json here"}`, http.StatusUnprocessableEntity, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/generate", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.wantCode != "" && !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body %s missing code %q", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestRender(t *testing.T) {
	h := testServer(t)

	// generate a diagram first, then render it back
	gen := postJSON(t, h, "/api/generate",
		`{"goal": "shop", "plan": "`+rawPlanJSON+`", "formats": ["xml"]}`)
	var resp struct {
		Artifacts map[string]string `json:"artifacts"`
	}
	if err := json.Unmarshal(gen.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(map[string]string{"diagram": resp.Artifacts["xml"]})
	if err != nil {
		t.Fatal(err)
	}
	rec := postJSON(t, h, "/api/render", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("render response is not SVG")
	}
}

func TestValidateEndpoint(t *testing.T) {
	h := testServer(t)
	rec := postJSON(t, h, "/api/validate", `{"diagram": "garbage", "goal": "x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report struct {
		OK     bool `json:"ok"`
		Issues []struct {
			Check string `json:"check"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.OK || len(report.Issues) == 0 {
		t.Errorf("garbage diagram should fail validation: %s", rec.Body.String())
	}
}
