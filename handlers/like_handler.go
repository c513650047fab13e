package handlers

import (
	"net/http"
	"strings"

	"warbler/dto"
	"warbler/monitoring"
)

// ToggleLike likes or unlikes message {id} for the current user.
// Clients asking for JSON get the new state; browsers are sent back where they came from.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	wantsJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	user := currentUser(r)
	if user == nil {
		if wantsJSON {
			writeJSONError(w, http.StatusUnauthorized, "Access unauthorized.")
			return
		}
		h.unauthorized(w, r)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r, "")
		return
	}

	liked, total, err := h.likes.Toggle(r.Context(), user.ID, id)
	if err != nil {
		if wantsJSON {
			h.failJSON(w, r, err)
			return
		}
		h.fail(w, r, err)
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	monitoring.LikesToggled.WithLabelValues(action).Inc()

	if wantsJSON {
		writeJSON(w, http.StatusOK, dto.LikeDTO{Liked: liked, TotalLikes: total})
		return
	}
	http.Redirect(w, r, back(r), http.StatusFound)
}
