package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hazyhaar/catmatch/pkg/audit"
	"github.com/hazyhaar/catmatch/pkg/kit"
	"github.com/hazyhaar/catmatch/pkg/metrics"
	"github.com/hazyhaar/catmatch/pkg/rank"
)

// Options carries the optional collaborators of the API.
type Options struct {
	Logger *slog.Logger
	Store  *audit.Store // nil = search log disabled
}

// endpoints is the set of endpoints shared by the HTTP and MCP transports.
type endpoints struct {
	search         kit.Endpoint
	explain        kit.Endpoint
	listCategories kit.Endpoint
}

func newEndpoints(reg *rank.Registry, opts Options) endpoints {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	mw := kit.Chain(kit.RequestID, searchMiddleware(opts.Logger, opts.Store))
	return endpoints{
		search:         shapeSearch(mw(searchEndpoint(reg))),
		explain:        kit.RequestID(explainEndpoint(reg)),
		listCategories: listCategoriesEndpoint(reg),
	}
}

func shapeSearch(next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		resp, err := next(ctx, request)
		if err != nil {
			return nil, err
		}
		return toSearchResponse(resp.(*rank.Result)), nil
	}
}

// NewRouter returns an http.Handler with all catmatch API routes.
func NewRouter(reg *rank.Registry, opts Options) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		endpoints: newEndpoints(reg, opts),
		reg:       reg,
		store:     opts.Store,
	}

	mux.HandleFunc("GET /api/industry/search", h.handleSearch)
	mux.HandleFunc("GET /v1/search", h.handleSearch)
	mux.HandleFunc("GET /v1/explain", h.handleExplain)
	mux.HandleFunc("GET /v1/categories", h.handleListCategories)
	mux.HandleFunc("GET /v1/searches/top", h.handleTopQueries)
	mux.HandleFunc("GET /v1/searches/recent", h.handleRecent)
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	return cors(mux)
}

type handler struct {
	endpoints
	reg   *rank.Registry
	store *audit.Store
}

// --- search ---

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit")) // invalid or absent -> default

	resp, err := h.search(requestContext(w, r), &searchReq{
		Query: q.Get("q"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- explain ---

func (h *handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.explain(requestContext(w, r), &explainReq{
		Query: q.Get("q"),
		Code:  q.Get("code"),
	})
	switch {
	case errors.Is(err, errMissingCode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errUnknownCode):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// --- list categories ---

func (h *handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listCategories(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- search log ---

type topQueriesResponse struct {
	Queries []audit.QueryCount `json:"queries"`
}

func (h *handler) handleTopQueries(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "search log disabled")
		return
	}
	top, err := h.store.TopQueries(r.Context(), countParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if top == nil {
		top = []audit.QueryCount{}
	}
	writeJSON(w, http.StatusOK, topQueriesResponse{Queries: top})
}

type recentResponse struct {
	Searches []audit.Entry `json:"searches"`
}

func (h *handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "search log disabled")
		return
	}
	recent, err := h.store.Recent(r.Context(), countParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recent == nil {
		recent = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, recentResponse{Searches: recent})
}

// countParam reads ?n=, defaulting to 20 and capped at 100.
func countParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n <= 0 || n > 100 {
		return 20
	}
	return n
}

// --- health ---

type healthResponse struct {
	Status  string    `json:"status"`
	Catalog rank.Info `json:"catalog"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.reg.Engine() == nil {
		status = "loading"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  status,
		Catalog: h.reg.Info(),
	})
}

// --- helpers ---

// requestContext tags the context with the HTTP transport and the caller's
// X-Request-ID, generating one when absent, and echoes it back.
func requestContext(w http.ResponseWriter, r *http.Request) context.Context {
	id := r.Header.Get("X-Request-ID")
	if id == "" || len(id) > 64 {
		id = kit.NewRequestID()
	}
	w.Header().Set("X-Request-ID", id)
	ctx := kit.WithTransport(r.Context(), "http")
	return kit.WithRequestID(ctx, id)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
