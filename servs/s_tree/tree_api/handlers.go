package tree_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rskv-p/htree/pkg/x_htree"
	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/servs/s_tree/tree_serv"
)

type handlers struct {
	store   *tree_serv.Store
	maxBody int64
}

// -------- reads --------

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "size": h.store.Len()})
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handlers) subtree(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.store.Subtree(chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (h *handlers) dump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.store.View(func(t *x_htree.Tree[string, string]) { t.Dump(w) })
}

// -------- writes --------

func (h *handlers) insert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key    string `json:"key"`
		Value  string `json:"value"`
		Parent string `json:"parent"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	key, err := h.store.Insert(r.Context(), req.Key, req.Value, req.Parent)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, _ := h.store.Get(key)
	writeJSON(w, http.StatusCreated, n)
}

func (h *handlers) set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")
	if err := h.store.Set(r.Context(), key, req.Value); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) erase(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Erase(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Parent string `json:"parent"`
		Pos    *int   `json:"pos"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	pos := -1
	if req.Pos != nil {
		pos = *req.Pos
		if pos < 0 {
			writeError(w, http.StatusBadRequest, x_htree.ErrPosition.Error())
			return
		}
	}
	if err := h.store.Move(r.Context(), chi.URLParam(r, "key"), req.Parent, pos); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -------- helpers --------

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		x_log.From(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, x_htree.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, x_htree.ErrKeyExists):
		return http.StatusConflict
	case errors.Is(err, x_htree.ErrParentNotFound),
		errors.Is(err, x_htree.ErrCycle),
		errors.Is(err, x_htree.ErrPosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
