package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"warbler/apperrors"
	"warbler/auth"
	"warbler/dto"
	"warbler/forms"
	"warbler/models"
	"warbler/repositories"
	"warbler/session"
	"warbler/templates"
)

// TimelineSize is the number of messages shown on the home page and profiles.
const TimelineSize = 100

type contextKey int

const currentUserKey contextKey = iota

// Page is the data every template is rendered with.
type Page struct {
	CurrentUser *models.User
	Flashes     []session.Flash
	Query       string
	Heading     string
	NotFound    string

	Profile   *Profile
	Users     []models.User
	Messages  []models.Message
	Message   *models.Message
	LikeCount int64
	// Liked and Following hold the current user's liked message ids and followed user ids.
	Liked     map[uint]bool
	Following map[uint]bool

	Form   interface{}
	Errors forms.Errors
}

// Profile is the header shown on user pages.
type Profile struct {
	User           *models.User
	MessageCount   int64
	FollowingCount int64
	FollowersCount int64
	LikeCount      int64
	IsFollowing    bool
}

type Handler struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	likes    repositories.LikeRepository
	creds    *auth.CredentialStore
	sessions *session.Manager
	views    *templates.Renderer
}

func NewHandler(
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	likes repositories.LikeRepository,
	creds *auth.CredentialStore,
	sessions *session.Manager,
	views *templates.Renderer,
) *Handler {
	return &Handler{
		users:    users,
		messages: messages,
		likes:    likes,
		creds:    creds,
		sessions: sessions,
		views:    views,
	}
}

// LoadCurrentUser puts the logged in user, if any, into the request context.
// A session pointing at a deleted user is cleared.
func (h *Handler) LoadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessions.CurrentUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.users.FindByID(r.Context(), id)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			_ = h.sessions.Logout(w, r)
		case err != nil:
			h.serverError(w, r, err)
			return
		default:
			r = r.WithContext(context.WithValue(r.Context(), currentUserKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(currentUserKey).(*models.User)
	return user
}

// requireUser returns the logged in user or flashes and redirects home.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	if user := currentUser(r); user != nil {
		return user, true
	}
	h.unauthorized(w, r)
	return nil, false
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	h.flash(w, r, "danger", "Access unauthorized.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	if err := h.sessions.AddFlash(w, r, category, message); err != nil {
		logrus.WithError(err).Warn("Failed to save flash message")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, page *Page) {
	page.CurrentUser = currentUser(r)
	page.Flashes = h.sessions.Flashes(w, r)
	if err := h.views.Render(w, status, name, page); err != nil {
		h.serverError(w, r, err)
	}
}

// fail maps data-layer errors onto responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		h.notFound(w, r, apperrors.Message(err))
	case apperrors.KindUnauthorized:
		h.unauthorized(w, r)
	case apperrors.KindValidation, apperrors.KindConstraint:
		h.flash(w, r, "danger", apperrors.Message(err))
		http.Redirect(w, r, back(r), http.StatusFound)
	default:
		h.serverError(w, r, err)
	}
}

// failJSON is fail for clients that asked for JSON.
func (h *Handler) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		writeJSONError(w, http.StatusNotFound, apperrors.Message(err))
	case apperrors.KindUnauthorized:
		writeJSONError(w, http.StatusUnauthorized, apperrors.Message(err))
	case apperrors.KindValidation:
		writeJSONError(w, http.StatusBadRequest, apperrors.Message(err))
	case apperrors.KindConstraint:
		writeJSONError(w, http.StatusConflict, apperrors.Message(err))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		writeJSONError(w, http.StatusInternalServerError, apperrors.Message(err))
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, r, http.StatusNotFound, "404", &Page{NotFound: message})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorDTO{Status: status, ErrorMsg: msg})
}

// idParam reads a numeric route variable; the routes restrict it to digits.
func idParam(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 0)
	return uint(id), err == nil
}

// back returns the local path the request came from, or "/".
func back(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// likedSet returns the ids of messages the current user liked.
func (h *Handler) likedSet(r *http.Request) (map[uint]bool, error) {
	user := currentUser(r)
	if user == nil {
		return nil, nil
	}
	ids, err := h.likes.LikedMessageIDs(r.Context(), user.ID)
	return toSet(ids), err
}

// followingSet returns the ids of users the current user follows.
func (h *Handler) followingSet(r *http.Request) (map[uint]bool, error) {
	user := currentUser(r)
	if user == nil {
		return nil, nil
	}
	ids, err := h.users.FollowingIDs(r.Context(), user.ID)
	return toSet(ids), err
}

func (h *Handler) loadProfile(r *http.Request, user *models.User) (*Profile, error) {
	ctx := r.Context()
	p := &Profile{User: user}
	var err error
	if p.MessageCount, err = h.messages.CountByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = h.users.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}
	if p.FollowersCount, err = h.users.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if p.LikeCount, err = h.likes.CountByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if cur := currentUser(r); cur != nil && cur.ID != user.ID {
		if p.IsFollowing, err = h.users.IsFollowing(ctx, cur.ID, user.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}
