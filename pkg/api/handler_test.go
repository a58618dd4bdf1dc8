package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type resolutionJSON struct {
	Word       string `json:"word"`
	Canonical  string `json:"canonical"`
	Article    string `json:"article"`
	Stage      string `json:"stage"`
	Rule       string `json:"rule"`
	Lexicon    string `json:"lexicon"`
	Locale     string `json:"locale"`
	Plural     string `json:"plural"`
	Confidence string `json:"confidence"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	res := NewResolver(newTestRegistry(t), newFakeRemote(), newTestLogger())
	ts := httptest.NewServer(NewRouter(res, newTestLogger()))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postBatch(t *testing.T, url, body string, v any) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/v1/article/batch", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST batch: %v", err)
	}
	defer resp.Body.Close()
	if v != nil {
		json.NewDecoder(resp.Body).Decode(v)
	}
	return resp
}

func TestDetermineHandler(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path    string
		article string
		stage   string
		lexicon string
	}{
		{"/v1/article/M%C3%A4dchen", "das", "rule", ""},
		{"/v1/article/Freiheit", "die", "rule", ""},
		{"/v1/article/K%C3%A4se", "der", "exception", ""},
		{"/v1/article/Joghurt", "der", "lexicon", "nouns-test"},
		{"/v1/article/Joghurt?builtin=true", "unknown", "none", ""},
		{"/v1/article/Joghurt?lexicons=other", "unknown", "none", ""},
		{"/v1/article/xyz", "unknown", "none", ""},
		{"/v1/article/Xylofon?remote=true", "das", "remote", ""},
	}
	for _, tt := range tests {
		var got resolutionJSON
		resp := getJSON(t, ts.URL+tt.path, &got)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", tt.path, resp.StatusCode)
			continue
		}
		if got.Article != tt.article || got.Stage != tt.stage || got.Lexicon != tt.lexicon {
			t.Errorf("GET %s = %s/%s/%q, want %s/%s/%q", tt.path, got.Article, got.Stage, got.Lexicon, tt.article, tt.stage, tt.lexicon)
		}
	}
}

func TestDetermineHandler_Locale(t *testing.T) {
	ts := newTestServer(t)

	var got resolutionJSON
	getJSON(t, ts.URL+"/v1/article/Haus?locale=de-at", &got)
	if got.Locale != "de-AT" || got.Article != "das" {
		t.Errorf("locale/article = %q/%q, want de-AT/das", got.Locale, got.Article)
	}

	var errBody map[string]string
	resp := getJSON(t, ts.URL+"/v1/article/Haus?locale=fr-FR", &errBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported locale status = %d, want 400", resp.StatusCode)
	}
	if errBody["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestDetermineBatchHandler(t *testing.T) {
	ts := newTestServer(t)

	var got struct {
		Results []resolutionJSON `json:"results"`
	}
	resp := postBatch(t, ts.URL, `{"words":["Mädchen","Freiheit","xyz","Joghurt"],"locale":"de-CH"}`, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	want := []string{"das", "die", "unknown", "der"}
	if len(got.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(got.Results), len(want))
	}
	for i, r := range got.Results {
		if r.Article != want[i] {
			t.Errorf("result[%d] %s = %s, want %s", i, r.Word, r.Article, want[i])
		}
		if r.Locale != "de-CH" {
			t.Errorf("result[%d] locale = %q, want de-CH", i, r.Locale)
		}
	}
}

func TestDetermineBatchHandler_Errors(t *testing.T) {
	ts := newTestServer(t)

	many := make([]string, MaxBatch+1)
	for i := range many {
		many[i] = `"Haus"`
	}

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty", `{"words":[]}`, http.StatusBadRequest},
		{"missing words", `{}`, http.StatusBadRequest},
		{"too many", `{"words":[` + strings.Join(many, ",") + `]}`, http.StatusBadRequest},
		{"invalid json", `{"words":`, http.StatusBadRequest},
		{"bad locale", `{"words":["Haus"],"locale":"en"}`, http.StatusBadRequest},
		{"too large", `{"words":["` + strings.Repeat("a", maxBatchBody) + `"]}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		resp := postBatch(t, ts.URL, tt.body, nil)
		if resp.StatusCode != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.code)
		}
	}
}

func TestDetermineBatchHandler_GetNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/v1/article/batch", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET batch status = %d, want 405", resp.StatusCode)
	}
}

func TestListLexiconsHandler(t *testing.T) {
	ts := newTestServer(t)

	var got struct {
		Lexicons []struct {
			ID      string `json:"id"`
			License string `json:"license"`
			Entries int    `json:"entries"`
		} `json:"lexicons"`
	}
	getJSON(t, ts.URL+"/v1/lexicons", &got)
	if len(got.Lexicons) != 1 {
		t.Fatalf("lexicons = %d, want 1", len(got.Lexicons))
	}
	l := got.Lexicons[0]
	if l.ID != "nouns-test" || l.License != "CC0" || l.Entries != 2 {
		t.Errorf("lexicon = %+v", l)
	}
}

func TestListRulesHandler(t *testing.T) {
	ts := newTestServer(t)

	var got struct {
		Rules []struct {
			Name     string `json:"name"`
			Article  string `json:"article"`
			Priority int    `json:"priority"`
		} `json:"rules"`
		Exceptions int `json:"exceptions"`
	}
	getJSON(t, ts.URL+"/v1/rules", &got)
	if len(got.Rules) != 28 {
		t.Fatalf("rules = %d, want 28", len(got.Rules))
	}
	if r := got.Rules[0]; r.Name != "-chen/-lein" || r.Article != "das" || r.Priority != 1 {
		t.Errorf("first rule = %+v", r)
	}
	if r := got.Rules[27]; r.Article != "der" || r.Priority != 28 {
		t.Errorf("last rule = %+v", r)
	}
	if got.Exceptions == 0 {
		t.Error("exceptions = 0")
	}
}

func TestHealthHandler(t *testing.T) {
	ts := newTestServer(t)

	var got healthResponse
	resp := getJSON(t, ts.URL+"/v1/health", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got.Status != "ok" || got.Lexicons != 1 || got.TotalEntries != 2 || got.Rules != 28 || !got.Remote {
		t.Errorf("health = %+v", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}

	resp = getJSON(t, ts.URL+"/v1/health", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/article/Haus", nil)
	req.Header.Set("Origin", "https://example.org")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	pre, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/article/batch", nil)
	pre.Header.Set("Origin", "https://example.org")
	pre.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err = http.DefaultClient.Do(pre)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}
}
