package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"warbler/auth"
	"warbler/database/dbtest"
	"warbler/handlers"
	"warbler/models"
	"warbler/repositories"
	"warbler/routes"
	"warbler/session"
	"warbler/templates"
)

const testPassword = "testuser"

type testApp struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	likes    repositories.LikeRepository
	creds    *auth.CredentialStore
	sessions *session.Manager
	router   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithLikes(t, nil)
}

// newTestAppWithLikes lets a test wrap the like store the handlers see.
func newTestAppWithLikes(t *testing.T, wrap func(repositories.LikeRepository) repositories.LikeRepository) *testApp {
	t.Helper()
	db := dbtest.New(t)

	views, err := templates.New()
	require.NoError(t, err)

	app := &testApp{
		users:    repositories.NewUserRepository(db.DB),
		messages: repositories.NewMessageRepository(db.DB),
		likes:    repositories.NewLikeRepository(db.DB),
		sessions: session.NewManager([]byte("test-secret"), false),
	}
	app.creds = auth.NewCredentialStore(app.users, bcrypt.MinCost)

	likes := app.likes
	if wrap != nil {
		likes = wrap(likes)
	}
	h := handlers.NewHandler(app.users, app.messages, likes, app.creds, app.sessions, views)
	app.router = routes.SetupRoutes(h, handlers.NewSystemHandler(db))
	return app
}

// createUser inserts a user with a fixed id whose password is testPassword.
func (a *testApp) createUser(t *testing.T, id uint, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@test.com",
		Password: string(hashed),
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

func (a *testApp) createMessage(t *testing.T, id, userID uint, text string) *models.Message {
	t.Helper()
	message := &models.Message{ID: id, Text: text, UserID: userID}
	require.NoError(t, a.messages.Create(context.Background(), message))
	return message
}

// client is a browser stand-in that keeps the newest cookie of each name.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

// loginAs writes a session for userID without going through the login form.
func (c *client) loginAs(t *testing.T, userID uint) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, c.app.sessions.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), userID))
	c.keep(rec)
}

func (c *client) keep(rec *httptest.ResponseRecorder) {
	for _, cookie := range rec.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
}

func (c *client) do(method, target string, form url.Values, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.app.router.ServeHTTP(rec, req)
	c.keep(rec)
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil, nil)
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, form, nil)
}

// follow issues the request and then GETs every redirect until a page is served.
func (c *client) follow(method, target string, form url.Values) *httptest.ResponseRecorder {
	rec := c.do(method, target, form, nil)
	for i := 0; i < 10 && isRedirect(rec.Code); i++ {
		rec = c.get(rec.Header().Get("Location"))
	}
	return rec
}

func isRedirect(code int) bool {
	return code == http.StatusFound || code == http.StatusSeeOther || code == http.StatusMovedPermanently
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
