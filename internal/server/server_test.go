package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BlogPost{}, &models.Comment{}))

	cfg := &config.Config{
		Port:          "0",
		SessionSecret: "server-test-session-secret",
		SessionTTL:    time.Hour,
		AdminUserID:   1,
		BcryptCost:    bcrypt.MinCost,
		Env:           "test",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, srv, db
}

func doGet(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPostForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// cookieHeader collects the response's Set-Cookie values into a Cookie
// header for the next request, the way a browser would.
func cookieHeader(resp *http.Response) string {
	var parts []string
	for _, ck := range resp.Cookies() {
		if ck.Value != "" {
			parts = append(parts, ck.Name+"="+ck.Value)
		}
	}
	return strings.Join(parts, "; ")
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// register signs up a user and returns the logged-in session cookie.
func register(t *testing.T, app *fiber.App, email, name string) string {
	t.Helper()
	resp := doPostForm(t, app, "/register", url.Values{
		"email":    {email},
		"password": {"password-123"},
		"name":     {name},
	}, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	cookie := cookieHeader(resp)
	require.Contains(t, cookie, session.CookieName+"=")
	return cookie
}

type pagePayload struct {
	Page          string            `json:"page"`
	Posts         []models.BlogPost `json:"posts"`
	Post          *models.BlogPost  `json:"post"`
	Comments      []models.Comment  `json:"comments"`
	Flash         string            `json:"flash"`
	CurrentUserID uint              `json:"current_user_id"`
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	app, _, db := newTestApp(t)

	cookie := register(t, app, "admin@example.com", "Admin")

	var payload pagePayload
	resp := doGet(t, app, "/", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &payload)
	assert.Equal(t, uint(1), payload.CurrentUserID)

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, uint(1), user.ID)
	assert.NotEqual(t, "password-123", user.Password)
}

func TestRegister_DuplicateEmailRedirectsToLogin(t *testing.T) {
	app, _, _ := newTestApp(t)

	register(t, app, "taken@example.com", "First")

	resp := doPostForm(t, app, "/register", url.Values{
		"email":    {"taken@example.com"},
		"password": {"password-123"},
		"name":     {"Second"},
	}, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The flash survives the redirect and is consumed by the next page.
	var payload pagePayload
	loginResp := doGet(t, app, "/login", cookieHeader(resp))
	decodeBody(t, loginResp, &payload)
	assert.Equal(t, "You've already signed up with that email, log in instead!", payload.Flash)
}

func TestLogin_Failures(t *testing.T) {
	app, _, _ := newTestApp(t)
	register(t, app, "reader@example.com", "Reader")

	t.Run("unknown email", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {"ghost@example.com"},
			"password": {"password-123"},
		}, "")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		var payload pagePayload
		next := doGet(t, app, "/login", cookieHeader(resp))
		decodeBody(t, next, &payload)
		assert.Equal(t, "That email does not exist, please try again.", payload.Flash)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {"reader@example.com"},
			"password": {"wrong-password"},
		}, "")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		var payload pagePayload
		next := doGet(t, app, "/login", cookieHeader(resp))
		decodeBody(t, next, &payload)
		assert.Equal(t, "Password incorrect, please try again.", payload.Flash)
	})

	t.Run("success", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {"reader@example.com"},
			"password": {"password-123"},
		}, "")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Contains(t, cookieHeader(resp), session.CookieName+"=")
	})
}

func TestNewPost_AdminGate(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")
	readerCookie := register(t, app, "reader@example.com", "Reader")

	t.Run("anonymous forbidden", func(t *testing.T) {
		resp := doGet(t, app, "/new-post", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		resp := doGet(t, app, "/new-post", readerCookie)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, models.CodeForbidden, body.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		resp := doGet(t, app, "/new-post", adminCookie)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func createPostForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"body":     {"Body text"},
		"img_url":  {"https://example.com/img.png"},
	}
}

func TestCreatePost_VisibleOnFrontPage(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")

	resp := doPostForm(t, app, "/new-post", createPostForm("Hello World"), adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var payload pagePayload
	front := doGet(t, app, "/", "")
	decodeBody(t, front, &payload)
	require.Len(t, payload.Posts, 1)
	assert.Equal(t, "Hello World", payload.Posts[0].Title)
	assert.Equal(t, uint(1), payload.Posts[0].AuthorID)

	_, err := time.Parse(models.PostDateLayout, payload.Posts[0].Date)
	assert.NoError(t, err, "date must use the long month form")
}

func TestCreatePost_DuplicateTitleFlashes(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")

	resp := doPostForm(t, app, "/new-post", createPostForm("Taken"), adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = doPostForm(t, app, "/new-post", createPostForm("Taken"), adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/new-post", resp.Header.Get("Location"))
	assert.Contains(t, cookieHeader(resp), FlashCookieName+"=")
}

func TestAddComment_AnonymousRedirectsToLogin(t *testing.T) {
	app, _, db := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")
	doPostForm(t, app, "/new-post", createPostForm("Hello"), adminCookie)

	resp := doPostForm(t, app, "/post/1", url.Values{"text": {"drive-by"}}, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)

	var payload pagePayload
	login := doGet(t, app, "/login", cookieHeader(resp))
	decodeBody(t, login, &payload)
	assert.Equal(t, "You need to login or register to comment.", payload.Flash)
}

func TestAddComment_Authenticated(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")
	readerCookie := register(t, app, "reader@example.com", "Reader")
	doPostForm(t, app, "/new-post", createPostForm("Hello"), adminCookie)

	resp := doPostForm(t, app, "/post/1", url.Values{"text": {"well written"}}, readerCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/1", resp.Header.Get("Location"))

	var payload pagePayload
	page := doGet(t, app, "/post/1", "")
	require.Equal(t, http.StatusOK, page.StatusCode)
	decodeBody(t, page, &payload)
	require.Len(t, payload.Comments, 1)
	assert.Equal(t, "well written", payload.Comments[0].Text)
	assert.Equal(t, "Reader", payload.Comments[0].Author.Name)
}

func TestDeletePost_AdminOnlyAndCascades(t *testing.T) {
	app, _, db := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")
	readerCookie := register(t, app, "reader@example.com", "Reader")
	doPostForm(t, app, "/new-post", createPostForm("Doomed"), adminCookie)
	doPostForm(t, app, "/post/1", url.Values{"text": {"soon gone"}}, readerCookie)

	resp := doGet(t, app, "/delete/1", readerCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doGet(t, app, "/delete/1", adminCookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	notFound := doGet(t, app, "/post/1", "")
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)

	var comments int64
	db.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, comments, "comments must be deleted with the post")
}

func TestDeletePost_MissingIs404(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")

	resp := doGet(t, app, "/delete/42", adminCookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditPost_NoGuardAndDatePreserved(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")
	doPostForm(t, app, "/new-post", createPostForm("Original"), adminCookie)

	var before pagePayload
	decodeBody(t, doGet(t, app, "/post/1", ""), &before)
	require.NotNil(t, before.Post)

	// No session at all: the edit still goes through.
	resp := doPostForm(t, app, "/edit-post/1", url.Values{
		"title":    {"Rewritten"},
		"subtitle": {"New subtitle"},
		"body":     {"New body"},
		"img_url":  {"https://example.com/new.png"},
	}, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/1", resp.Header.Get("Location"))

	var after pagePayload
	decodeBody(t, doGet(t, app, "/post/1", ""), &after)
	require.NotNil(t, after.Post)
	assert.Equal(t, "Rewritten", after.Post.Title)
	assert.Equal(t, before.Post.Date, after.Post.Date)
	assert.Equal(t, before.Post.AuthorID, after.Post.AuthorID, "anonymous edits keep the author")
}

func TestLogout_KillsSession(t *testing.T) {
	app, _, _ := newTestApp(t)
	adminCookie := register(t, app, "admin@example.com", "Admin")

	resp := doGet(t, app, "/new-post", adminCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	logout := doGet(t, app, "/logout", adminCookie)
	require.Equal(t, http.StatusFound, logout.StatusCode)
	assert.Equal(t, "/", logout.Header.Get("Location"))

	// The server-side record is gone, so replaying the old cookie fails.
	resp = doGet(t, app, "/new-post", adminCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestShowPost_Errors(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doGet(t, app, "/post/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeNotFound, body.Code)

	resp = doGet(t, app, "/post/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStaticPagesAndHealth(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, path := range []string{"/about", "/contact", "/health/live", "/health/ready"} {
		resp := doGet(t, app, path, "")
		assert.Equalf(t, http.StatusOK, resp.StatusCode, "GET %s", path)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
