package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/apperrors"
)

func seedUsers(t *testing.T, app *testApp) {
	t.Helper()
	app.createUser(t, 1111, "testuser1")
	app.createUser(t, 2222, "testuser2")
	app.createUser(t, 3333, "testuser3")
}

func TestUserList(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	rec := app.client().get("/users")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "@testuser1")
	assert.Contains(t, body, "@testuser2")
	assert.Contains(t, body, "@testuser3")
}

func TestUserSearch(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	rec := app.client().get("/users?q=testuser1")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "@testuser1")
	assert.NotContains(t, body, "@testuser2")
	assert.NotContains(t, body, "@testuser3")
}

func TestUserShow(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	rec := app.client().get("/users/1111")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "@testuser1")

	rec = app.client().get("/users/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserShowWithLikes(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)
	ctx := context.Background()

	app.createMessage(t, 1234, 1111, "Hello")
	app.createMessage(t, 3456, 1111, "Hi")
	app.createMessage(t, 9876, 2222, "Goodbye")
	for _, id := range []uint{1234, 3456, 9876} {
		_, _, err := app.likes.Toggle(ctx, 3333, id)
		require.NoError(t, err)
	}

	rec := app.client().get("/users/3333")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "@testuser3", text(doc, "#sidebar-username"))
	assert.Equal(t, "3", text(doc, "#like-count"))
	assert.Equal(t, "0", text(doc, "#messages-count"))

	rec = app.client().get("/users/3333/likes")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = parse(t, rec)
	assert.Equal(t, 3, doc.Find("#likes li").Length())
}

func setupFollowers(t *testing.T, app *testApp) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, app.users.Follow(ctx, 2222, 1111))
	require.NoError(t, app.users.Follow(ctx, 1111, 2222))
	require.NoError(t, app.users.Follow(ctx, 3333, 1111))
}

func TestUserShowWithFollows(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)
	setupFollowers(t, app)

	rec := app.client().get("/users/1111")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "@testuser1", text(doc, "#sidebar-username"))
	assert.Equal(t, "1", text(doc, "#following-count"))
	assert.Equal(t, "2", text(doc, "#followers-count"))
	assert.Equal(t, "0", text(doc, "#messages-count"))
}

func TestShowFollowersAndFollowing(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)
	setupFollowers(t, app)

	c := app.client()
	c.loginAs(t, 1111)

	rec := c.get("/users/1111/following")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "@testuser2")
	assert.NotContains(t, body, "@testuser3")

	rec = c.get("/users/1111/followers")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "@testuser2")
	assert.Contains(t, body, "@testuser3")
}

func TestUnauthorizedFollowersPage(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	rec := app.client().follow(http.MethodGet, "/users/1111/followers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access unauthorized")
	assert.NotContains(t, rec.Body.String(), "@testuser1")
}

func TestFollowAndStopFollowing(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)
	ctx := context.Background()

	c := app.client()
	c.loginAs(t, 1111)

	rec := c.post("/users/follow/3333", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/1111/following", rec.Header().Get("Location"))

	following, err := app.users.IsFollowing(ctx, 1111, 3333)
	require.NoError(t, err)
	assert.True(t, following)

	// A second follow is a no-op.
	rec = c.post("/users/follow/3333", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	count, err := app.users.CountFollowers(ctx, 3333)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec = c.post("/users/stop-following/3333", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	following, err = app.users.IsFollowing(ctx, 1111, 3333)
	require.NoError(t, err)
	assert.False(t, following)

	rec = c.post("/users/follow/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowSelfIsRejected(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	c := app.client()
	c.loginAs(t, 1111)

	rec := c.follow(http.MethodPost, "/users/follow/1111", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, parse(t, rec).Find(".alert-danger").Text(), "follow")

	count, err := app.users.CountFollowing(context.Background(), 1111)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEditProfile(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)

	c := app.client()
	c.loginAs(t, 1111)

	rec := c.get("/users/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	value, _ := doc.Find(`input[name="username"]`).Attr("value")
	assert.Equal(t, "testuser1", value)

	form := url.Values{
		"username": {"renamed"},
		"email":    {"renamed@test.com"},
		"bio":      {"Hello there"},
		"location": {"Copenhagen"},
		"password": {"wrong-password"},
	}
	rec = c.post("/users/profile", form)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password, please try again.")

	form.Set("password", testPassword)
	rec = c.post("/users/profile", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/1111", rec.Header().Get("Location"))

	user, err := app.users.FindByID(context.Background(), 1111)
	require.NoError(t, err)
	assert.Equal(t, "renamed", user.Username)
	assert.Equal(t, "Hello there", user.Bio)
	assert.Equal(t, "Copenhagen", user.Location)

	form.Set("username", "testuser2")
	rec = c.post("/users/profile", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")
}

func TestDeleteUser(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app)
	setupFollowers(t, app)
	app.createMessage(t, 1234, 1111, "Hello")

	c := app.client()
	c.loginAs(t, 1111)

	rec := c.post("/users/delete", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))

	ctx := context.Background()
	_, err := app.users.FindByID(ctx, 1111)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = app.messages.FindByID(ctx, 1234)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	count, err := app.users.CountFollowers(ctx, 2222)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The session no longer carries a user.
	rec = c.get("/")
	assert.Contains(t, rec.Body.String(), "Sign up now")
}
