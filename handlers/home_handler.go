package handlers

import "net/http"

// Homepage shows the landing page to anonymous visitors and the timeline otherwise.
func (h *Handler) Homepage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		h.render(w, r, http.StatusOK, "home-anon", &Page{})
		return
	}

	messages, err := h.messages.Timeline(r.Context(), user.ID, TimelineSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	liked, err := h.likedSet(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	profile, err := h.loadProfile(r, user)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "home", &Page{Profile: profile, Messages: messages, Liked: liked})
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "")
}
