package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"warbler/apperrors"
	"warbler/auth"
	"warbler/forms"
	"warbler/models"
	"warbler/monitoring"
)

// ListUsers shows every user, or those whose username contains ?q=.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	users, err := h.users.Search(r.Context(), q)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	following, err := h.followingSet(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "users/index", &Page{Users: users, Query: q, Following: following})
}

// profileUser loads the user named by {id} and their profile header.
func (h *Handler) profileUser(w http.ResponseWriter, r *http.Request) (*Profile, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r, "")
		return nil, false
	}
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	profile, err := h.loadProfile(r, user)
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return profile, true
}

// ShowUser shows a profile with the user's messages.
func (h *Handler) ShowUser(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profileUser(w, r)
	if !ok {
		return
	}
	messages, err := h.messages.ListByUser(r.Context(), profile.User.ID, TimelineSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	liked, err := h.likedSet(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "users/show", &Page{Profile: profile, Messages: messages, Liked: liked})
}

// ShowFollowing lists the users {id} follows.
func (h *Handler) ShowFollowing(w http.ResponseWriter, r *http.Request) {
	h.showFollows(w, r, "Following", h.users.Following)
}

// ShowFollowers lists the users following {id}.
func (h *Handler) ShowFollowers(w http.ResponseWriter, r *http.Request) {
	h.showFollows(w, r, "Followers", h.users.Followers)
}

func (h *Handler) showFollows(w http.ResponseWriter, r *http.Request, heading string, list func(ctx context.Context, id uint) ([]models.User, error)) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	profile, ok := h.profileUser(w, r)
	if !ok {
		return
	}
	users, err := list(r.Context(), profile.User.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	following, err := h.followingSet(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "users/follows", &Page{Profile: profile, Users: users, Heading: heading, Following: following})
}

// ShowLikes lists the messages {id} liked.
func (h *Handler) ShowLikes(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profileUser(w, r)
	if !ok {
		return
	}
	messages, err := h.likes.LikedMessages(r.Context(), profile.User.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	liked, err := h.likedSet(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "users/likes", &Page{Profile: profile, Messages: messages, Liked: liked})
}

// Follow makes the current user follow {id}.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, "follow", h.users.Follow)
}

// StopFollowing makes the current user unfollow {id}.
func (h *Handler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, "unfollow", h.users.Unfollow)
}

func (h *Handler) changeFollow(w http.ResponseWriter, r *http.Request, action string, change func(ctx context.Context, followerID, followedID uint) error) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r, "")
		return
	}
	target, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := change(r.Context(), user.ID, target.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	monitoring.FollowsChanged.WithLabelValues(action).Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", user.ID), http.StatusFound)
}

// EditProfile handles GET (prefilled form) and POST (update after password check).
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	form := &forms.UserEditForm{
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
	}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "users/edit", &Page{Form: form})
		return
	}

	errs, err := forms.Decode(r, form)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs != nil {
		h.render(w, r, http.StatusBadRequest, "users/edit", &Page{Form: form, Errors: errs})
		return
	}

	updated, err := h.creds.UpdateProfile(r.Context(), user.ID, form.Password, auth.ProfileUpdate{
		Username:       form.Username,
		Email:          form.Email,
		ImageURL:       form.ImageURL,
		HeaderImageURL: form.HeaderImageURL,
		Bio:            form.Bio,
		Location:       form.Location,
	})
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		h.flash(w, r, "danger", apperrors.Message(err))
		h.render(w, r, http.StatusUnauthorized, "users/edit", &Page{Form: form})
		return
	case errors.Is(err, apperrors.ErrConstraint):
		h.flash(w, r, "danger", apperrors.Message(err))
		h.render(w, r, http.StatusBadRequest, "users/edit", &Page{Form: form})
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", updated.ID), http.StatusFound)
}

// DeleteUser deletes the current user and logs them out.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessions.Logout(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/signup", http.StatusFound)
}
