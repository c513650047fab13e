package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"warbler/apperrors"
	"warbler/auth"
	"warbler/forms"
	"warbler/monitoring"
)

// Signup handles GET (show form) and POST (create account and log in).
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	form := &forms.UserAddForm{}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "users/signup", &Page{Form: form})
		return
	}

	errs, err := forms.Decode(r, form)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs != nil {
		h.render(w, r, http.StatusBadRequest, "users/signup", &Page{Form: form, Errors: errs})
		return
	}

	user, err := h.creds.Signup(r.Context(), auth.SignupParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		ImageURL: form.ImageURL,
	})
	if errors.Is(err, apperrors.ErrConstraint) || errors.Is(err, apperrors.ErrValidation) {
		h.flash(w, r, "danger", apperrors.Message(err))
		h.render(w, r, http.StatusBadRequest, "users/signup", &Page{Form: form})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	monitoring.RegisterSuccess.Inc()
	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Login handles GET (show form) and POST (authenticate).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := &forms.LoginForm{}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "users/login", &Page{Form: form})
		return
	}

	errs, err := forms.Decode(r, form)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs != nil {
		monitoring.LoginFailure.WithLabelValues("invalid form").Inc()
		h.render(w, r, http.StatusBadRequest, "users/login", &Page{Form: form, Errors: errs})
		return
	}

	user, ok, err := h.creds.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !ok {
		monitoring.LoginFailure.WithLabelValues("invalid credentials").Inc()
		logrus.WithField("username", form.Username).Info("Login failed")
		h.flash(w, r, "danger", "Invalid credentials.")
		h.render(w, r, http.StatusUnauthorized, "users/login", &Page{Form: form})
		return
	}

	monitoring.LoginSuccess.Inc()
	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, "success", fmt.Sprintf("Hello, %s!", user.Username))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, "success", "You have successfully logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}
