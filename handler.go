package memgrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gnemet/memgrid/internal/session"
)

// LoadFunc supplies the raw records of a grid
type LoadFunc func(ctx context.Context) ([]Record, error)

// RequestParams captures search, sort, filters and paging from a request
type RequestParams struct {
	Search   string
	Sort     []string // "field" toggles, "field:dir" pins
	Filters  map[string]string
	Page     int
	PageSize int
	GroupBy  string
}

// Handler exposes grids over HTTP, one engine per session.
type Handler struct {
	Load     LoadFunc
	Columns  []Column
	Catalog  *Catalog
	Lang     string
	Sessions *session.Pool[*Engine]

	mux *http.ServeMux
}

// NewHandler builds a handler over records from load. When cat is non-nil
// its columns and defaults are used and cols is ignored.
func NewHandler(load LoadFunc, cols []Column, cat *Catalog, pool *session.Pool[*Engine]) *Handler {
	h := &Handler{
		Load:     load,
		Columns:  cols,
		Catalog:  cat,
		Lang:     "en",
		Sessions: pool,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /view", h.handleView)
	mux.HandleFunc("POST /sessions", h.handleCreate)
	mux.HandleFunc("GET /sessions/{sid}", h.handleGet)
	mux.HandleFunc("DELETE /sessions/{sid}", h.handleDelete)
	mux.HandleFunc("GET /sessions/{sid}/summary", h.handleSummary)
	mux.HandleFunc("DELETE /sessions/{sid}/records/{id}", h.handleRemove)
	mux.HandleFunc("POST /sessions/{sid}/{action}", h.handleAction)
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// ParseParams reads grid parameters from the query string. Malformed
// page or page_size values are reported as a bad request.
func (h *Handler) ParseParams(r *http.Request) (RequestParams, error) {
	q := r.URL.Query()
	pageSize := 0
	if l := q.Get("page_size"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return RequestParams{}, badRequest("invalid page_size %q", l)
		}
		pageSize = n
	}
	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return RequestParams{}, badRequest("invalid page %q", p)
		}
		page = n
	}

	filters := make(map[string]string)
	for _, f := range q["filter"] {
		key, value, ok := strings.Cut(f, ":")
		if ok && key != "" {
			filters[h.filterColumn(key)] = value
		}
	}

	return RequestParams{
		Search:   q.Get("search"),
		Sort:     q["sort"],
		Filters:  filters,
		Page:     page,
		PageSize: pageSize,
		GroupBy:  q.Get("group_by"),
	}, nil
}

// Apply runs the request parameters through the engine mutators in the
// order filters, search, sort, page size, page.
func (p RequestParams) Apply(e *Engine) {
	for key, value := range p.Filters {
		e.SetFilter(key, value)
	}
	if p.Search != "" {
		e.SetSearch(p.Search)
	}
	for _, s := range p.Sort {
		for _, part := range strings.Split(s, ",") {
			field, dir, pinned := strings.Cut(part, ":")
			if pinned {
				e.SetSortDirection(field, SortDirection(strings.ToLower(dir)))
			} else {
				e.SetSort(field)
			}
		}
	}
	if p.PageSize > 0 {
		e.SetPageSize(p.PageSize)
	}
	if p.Page > 1 {
		e.SetPage(p.Page)
	}
}

// filterColumn resolves a catalog facet name to its column key.
func (h *Handler) filterColumn(name string) string {
	if h.Catalog == nil {
		return name
	}
	return h.Catalog.FilterColumn(name)
}

// NewEngine loads the records and builds a fresh engine.
func (h *Handler) NewEngine(ctx context.Context) (*Engine, error) {
	records, err := h.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if h.Catalog != nil {
		return NewFromCatalog(records, h.Catalog, h.Lang)
	}
	return New(records, h.Columns)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	params, err := h.ParseParams(r)
	if err != nil {
		h.fail(w, err, http.StatusBadRequest)
		return
	}
	e, err := h.NewEngine(r.Context())
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	params.Apply(e)
	if params.GroupBy != "" {
		if _, ok := e.Column(params.GroupBy); !ok {
			h.fail(w, badRequest("unknown group_by column %q", params.GroupBy), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, e.Summary(params.GroupBy, nil))
		return
	}
	writeJSON(w, http.StatusOK, e.View())
}

type sessionView struct {
	Session string `json:"session"`
	View
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	params, err := h.ParseParams(r)
	if err != nil {
		h.fail(w, err, http.StatusBadRequest)
		return
	}
	e, err := h.NewEngine(r.Context())
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	params.Apply(e)

	s, err := h.Sessions.Create(e)
	if err != nil {
		h.fail(w, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{Session: s.ID, View: e.View()})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(e *Engine) (interface{}, error) {
		return e.View(), nil
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Remove(r.PathValue("sid")) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(e *Engine) (interface{}, error) {
		groupBy := r.URL.Query().Get("group_by")
		if _, ok := e.Column(groupBy); !ok {
			return nil, badRequest("unknown group_by column %q", groupBy)
		}
		return e.Summary(groupBy, nil), nil
	})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(e *Engine) (interface{}, error) {
		e.Remove(r.PathValue("id"))
		return e.View(), nil
	})
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(e *Engine) (interface{}, error) {
		switch r.PathValue("action") {
		case "search":
			e.SetSearch(r.FormValue("q"))
		case "sort":
			e.SetSort(r.FormValue("key"))
		case "page":
			n, err := strconv.Atoi(r.FormValue("n"))
			if err != nil {
				return nil, badRequest("invalid page %q", r.FormValue("n"))
			}
			e.SetPage(n)
		case "page-size":
			n, err := strconv.Atoi(r.FormValue("n"))
			if err != nil {
				return nil, badRequest("invalid page size %q", r.FormValue("n"))
			}
			e.SetPageSize(n)
		case "filter":
			e.SetFilter(h.filterColumn(r.FormValue("key")), r.FormValue("value"))
		case "select":
			e.ToggleSelect(r.FormValue("id"), formBool(r, "selected"))
		case "select-all":
			e.ToggleSelectAll(formBool(r, "selected"))
		case "bulk":
			key := r.FormValue("key")
			e.BulkSet(key, e.ParseValue(key, r.FormValue("value")))
		default:
			return nil, notFound("unknown action %q", r.PathValue("action"))
		}
		return e.View(), nil
	})
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*Engine) (interface{}, error)) {
	s, err := h.Sessions.Get(r.PathValue("sid"))
	if err != nil {
		h.fail(w, err, http.StatusNotFound)
		return
	}

	s.Lock()
	out, err := fn(s.Value)
	s.Unlock()

	var he *httpError
	if errors.As(err, &he) {
		h.fail(w, err, he.status)
		return
	}
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		slog.Error("Grid request failed", "status", status, "error", err)
	}
	http.Error(w, err.Error(), status)
}

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return &httpError{status: http.StatusNotFound, msg: fmt.Sprintf(format, args...)}
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.FormValue(key))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
