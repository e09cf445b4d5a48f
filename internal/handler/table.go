package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/c010r/lollypos/internal/domain/table"
)

type changeTableStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) changeTableStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid table id")
		return
	}
	var req changeTableStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	status, err := table.ParseStatus(req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := h.tables.UpdateStatus(r.Context(), id, status); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	t, err := h.tables.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeTable(e, t)
	writeJSON(w, http.StatusOK, e)
}

// listTableOrders returns the active orders currently held against a table.
func (h *Handler) listTableOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid table id")
		return
	}
	if _, err := h.tables.Get(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	active, err := h.orders.ListActive(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for i := range active {
			o := &active[i]
			if o.TableID != nil && *o.TableID == id {
				encodeOrder(e, o)
			}
		}
	})
	writeJSON(w, http.StatusOK, e)
}

func encodeTable(e *jx.Encoder, t *table.Table) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(t.ID) })
		e.Field("number", func(e *jx.Encoder) { e.Int(t.Number) })
		e.Field("capacity", func(e *jx.Encoder) { e.Int(t.Capacity) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(t.Status)) })
		if t.Location != "" {
			e.Field("location", func(e *jx.Encoder) { e.Str(t.Location) })
		}
	})
}
