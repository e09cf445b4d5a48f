package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// validateDiscountCode checks a promo code and returns the discount it
// resolves to when the rule is currently usable.
func (h *Handler) validateDiscountCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "code query parameter is required")
		return
	}

	rule, err := h.discounts.FindByCode(r.Context(), code)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := rule.Usable(h.now()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(rule.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(rule.Name) })
		if rule.Description != "" {
			e.Field("description", func(e *jx.Encoder) { e.Str(rule.Description) })
		}
		e.Field("discount_type", func(e *jx.Encoder) { e.Str(string(rule.Type)) })
		e.Field("value", func(e *jx.Encoder) { encodeMoney(e, rule.Value) })
		e.Field("code", func(e *jx.Encoder) { e.Str(rule.Code) })
	})
	writeJSON(w, http.StatusOK, e)
}
