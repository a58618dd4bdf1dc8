package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hazyhaar/artikel/pkg/artikel"
	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/rs/cors"
)

const maxBatchBody = 64 * 1024

// NewRouter returns an http.Handler with all artikel API routes.
func NewRouter(res *Resolver, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{
		determine:      wrap(logger, "determine_article", determineEndpoint(res)),
		determineBatch: wrap(logger, "determine_articles", determineBatchEndpoint(res)),
		listLexicons:   wrap(logger, "list_lexicons", listLexiconsEndpoint(res.Registry())),
		listRules:      wrap(logger, "list_rules", listRulesEndpoint()),
		res:            res,
	}

	mux.HandleFunc("GET /v1/article/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/article/batch", h.handleDetermineBatch)
	mux.HandleFunc("GET /v1/article/{word}", h.handleDetermine)
	mux.HandleFunc("GET /v1/lexicons", h.handleListLexicons)
	mux.HandleFunc("GET /v1/rules", h.handleListRules)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(requestID(mux))
}

func wrap(logger *slog.Logger, name string, e kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(e)
}

type handler struct {
	determine      kit.Endpoint
	determineBatch kit.Endpoint
	listLexicons   kit.Endpoint
	listRules      kit.Endpoint
	res            *Resolver
}

// --- single word ---

func (h *handler) handleDetermine(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOpts(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.determine(r.Context(), &determineReq{
		Word: r.PathValue("word"),
		Opts: opts,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- batch ---

type httpBatchRequest struct {
	Words       []string `json:"words"`
	Lexicons    []string `json:"lexicons,omitempty"`
	BuiltinOnly bool     `json:"builtin_only,omitempty"`
	Remote      bool     `json:"remote,omitempty"`
	Locale      string   `json:"locale,omitempty"`
}

func (h *handler) handleDetermineBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBody)
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	locale, err := ParseLocale(req.Locale)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.determineBatch(r.Context(), &determineBatchReq{
		Words: req.Words,
		Opts: Options{
			Lexicons:    req.Lexicons,
			BuiltinOnly: req.BuiltinOnly,
			Remote:      req.Remote,
			Locale:      locale,
		},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- listings ---

func (h *handler) handleListLexicons(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listLexicons(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listRules(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Lexicons     int    `json:"lexicons"`
	TotalEntries int    `json:"total_entries"`
	Rules        int    `json:"rules"`
	Exceptions   int    `json:"exceptions"`
	Remote       bool   `json:"remote"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	reg := h.res.Registry()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Lexicons:     reg.LexiconCount(),
		TotalEntries: reg.TotalEntries(),
		Rules:        len(artikel.Rules()),
		Exceptions:   artikel.ExceptionCount(),
		Remote:       h.res.RemoteEnabled(),
	})
}

// --- helpers ---

func parseOpts(r *http.Request) (Options, error) {
	q := r.URL.Query()
	var opts Options
	if v := q.Get("lexicons"); v != "" {
		opts.Lexicons = splitList(v)
	}
	opts.BuiltinOnly, _ = strconv.ParseBool(q.Get("builtin"))
	opts.Remote, _ = strconv.ParseBool(q.Get("remote"))

	locale, err := ParseLocale(q.Get("locale"))
	if err != nil {
		return opts, err
	}
	opts.Locale = locale
	return opts, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// requestID propagates X-Request-ID, generating one when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
