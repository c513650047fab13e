package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"warbler/dto"
	"warbler/forms"
	"warbler/models"
	"warbler/monitoring"
)

// NewMessage handles GET (show form) and POST (store and go to the author's profile).
func (h *Handler) NewMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	form := &forms.MessageForm{}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "messages/new", &Page{Form: form})
		return
	}

	errs, err := forms.Decode(r, form)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs != nil {
		h.render(w, r, http.StatusBadRequest, "messages/new", &Page{Form: form, Errors: errs})
		return
	}

	message := &models.Message{Text: form.Text, UserID: user.ID}
	if err := h.messages.Create(r.Context(), message); err != nil {
		h.fail(w, r, err)
		return
	}
	monitoring.MessagesPosted.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// ShowMessage shows one message with its like count.
func (h *Handler) ShowMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r, "")
		return
	}
	message, err := h.messages.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	count, err := h.likes.CountByMessage(r.Context(), message.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "messages/show", &Page{Message: message, LikeCount: count})
}

// DeleteMessage deletes a message owned by the current user.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r, "")
		return
	}
	if err := h.messages.Delete(r.Context(), id, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	monitoring.MessagesDeleted.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// APIMessages returns the latest public messages as JSON.
func (h *Handler) APIMessages(w http.ResponseWriter, r *http.Request) {
	noMsgs := TimelineSize
	if noMsgsStr := r.URL.Query().Get("no"); noMsgsStr != "" {
		num, err := strconv.Atoi(noMsgsStr)
		if err != nil || num < 0 {
			writeJSONError(w, http.StatusBadRequest, "no must be a non-negative integer")
			return
		}
		noMsgs = num
	}

	messages, err := h.messages.Latest(r.Context(), noMsgs)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewMessageDTOs(messages))
}
