package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-catalog-api/internal/config"
	"book-catalog-api/internal/infrastructure/cache"
	"book-catalog-api/internal/infrastructure/database/dbtest"
	"book-catalog-api/pkg/container"
	"book-catalog-api/pkg/pagination"
)

const adminEmail = "admin@example.com"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	StatusCode    int             `json:"statusCode"`
	IsSuccess     bool            `json:"isSuccess"`
	Result        json.RawMessage `json:"result"`
	ErrorMessages []string        `json:"errorMessages"`
}

type link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type authorBody struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Links []link `json:"links"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		App:   config.AppConfig{Environment: "test"},
		Cache: config.CacheConfig{TTL: time.Minute},
		JWT:   config.JWTConfig{Secret: "router-test-secret-0123456789", Expiry: time.Hour},
		Auth:  config.AuthConfig{BootstrapAdminEmail: adminEmail},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	c := container.Build(cfg, dbtest.Open(t), cache.NewRedisCache(client, "test:"))
	return &api{t: t, router: SetupRouter(c)}
}

type call struct {
	method  string
	path    string
	token   string
	body    interface{}
	raw     string
	headers map[string]string
}

func (a *api) do(c call) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var body bytes.Buffer
	switch {
	case c.raw != "":
		body.WriteString(c.raw)
	case c.body != nil:
		require.NoError(a.t, json.NewEncoder(&body).Encode(c.body))
	}

	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if json.Valid(w.Body.Bytes()) {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func v1(extra map[string]string) map[string]string {
	h := map[string]string{"x-version": "1"}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (a *api) register(email string) string {
	a.t.Helper()
	_, env := a.do(call{
		method: http.MethodPost,
		path:   "/api/accounts/register",
		body:   map[string]string{"email": email, "password": "Passw0rdOK"},
	})
	require.Equal(a.t, http.StatusOK, env.StatusCode, env.ErrorMessages)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Result, &auth))
	return auth.Token
}

func (a *api) createAuthor(token, name string) int64 {
	a.t.Helper()
	_, env := a.do(call{
		method: http.MethodPost, path: "/api/authors", token: token,
		body: map[string]string{"name": name}, headers: v1(nil),
	})
	require.Equal(a.t, http.StatusCreated, env.StatusCode, env.ErrorMessages)

	var author authorBody
	require.NoError(a.t, json.Unmarshal(env.Result, &author))
	return author.ID
}

func (a *api) createBook(token, title string, authorIDs ...int64) int64 {
	a.t.Helper()
	_, env := a.do(call{
		method: http.MethodPost, path: "/api/v1/books", token: token,
		body: map[string]interface{}{"title": title, "authorsIds": authorIDs},
	})
	require.Equal(a.t, http.StatusCreated, env.StatusCode, env.ErrorMessages)

	var book struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Result, &book))
	return book.ID
}

// ========================================
// TESTS
// ========================================

func TestVersionHeaderIsRequired(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(call{method: http.MethodGet, path: "/api/authors"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.IsSuccess)

	w, env = a.do(call{method: http.MethodGet, path: "/api/authors", headers: map[string]string{"x-version": "2"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(call{method: http.MethodGet, path: "/api/authors", headers: v1(nil)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.IsSuccess)
	assert.JSONEq(t, `[]`, string(env.Result))
	assert.Equal(t, []string{}, env.ErrorMessages)
	assert.Equal(t, "0", w.Header().Get(pagination.HeaderTotalSizeRecords))
}

func TestAuthorLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.register(adminEmail)

	// Create answers 201 on the wire with a Location
	w, env := a.do(call{
		method: http.MethodPost, path: "/api/authors", token: admin,
		body: map[string]string{"name": "Ursula Le Guin"}, headers: v1(nil),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, http.StatusCreated, env.StatusCode)
	var created authorBody
	require.NoError(t, json.Unmarshal(env.Result, &created))
	assert.Equal(t, fmt.Sprintf("/api/authors/%d", created.ID), w.Header().Get("Location"))

	// Failures keep transport 200
	w, env = a.do(call{
		method: http.MethodPost, path: "/api/authors", token: admin,
		body: map[string]string{"name": "ursula le guin"}, headers: v1(nil),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.False(t, env.IsSuccess)
	assert.NotEmpty(t, env.ErrorMessages)

	// Patch gives logical 204 with the author
	_, env = a.do(call{
		method: http.MethodPatch, path: fmt.Sprintf("/api/authors/%d", created.ID), token: admin,
		raw: `[{"op":"replace","path":"/name","value":"Ursula K. Le Guin"}]`, headers: v1(nil),
	})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)
	assert.Contains(t, string(env.Result), "Ursula K. Le Guin")

	// Search is admin only
	_, env = a.do(call{method: http.MethodGet, path: "/api/authors/searchFirstAuthorByName/GUIN", token: admin, headers: v1(nil)})
	assert.Equal(t, http.StatusOK, env.StatusCode)
	w, _ = a.do(call{method: http.MethodGet, path: "/api/authors/searchFirstAuthorByName/GUIN", headers: v1(nil)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, env = a.do(call{method: http.MethodGet, path: "/api/authors/searchAllAuthorsByName/Tolkien", token: admin, headers: v1(nil)})
	assert.Equal(t, http.StatusNotFound, env.StatusCode)

	// Delete gives logical 204, then the author is gone
	_, env = a.do(call{method: http.MethodDelete, path: fmt.Sprintf("/api/authors/%d", created.ID), token: admin, headers: v1(nil)})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)
	_, env = a.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/authors/%d", created.ID), headers: v1(nil)})
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	_, env = a.do(call{method: http.MethodDelete, path: "/api/authors/0", token: admin, headers: v1(nil)})
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}

func TestAuthorLinks(t *testing.T) {
	a := newAPI(t)
	admin := a.register(adminEmail)
	reader := a.register("reader@example.com")
	for _, name := range []string{"Asimov", "Banks", "Clarke"} {
		a.createAuthor(admin, name)
	}

	countLinks := func(token string, include string) int {
		_, env := a.do(call{
			method: http.MethodGet, path: "/api/authors", token: token,
			headers: v1(map[string]string{"includeHATEOAS": include}),
		})
		require.Equal(t, http.StatusOK, env.StatusCode)
		var authors []authorBody
		require.NoError(t, json.Unmarshal(env.Result, &authors))
		require.Len(t, authors, 3)
		n := 0
		for _, au := range authors {
			n += len(au.Links)
		}
		return n
	}

	assert.Equal(t, 3, countLinks("", "Y"))
	assert.Equal(t, 3, countLinks(reader, "y"))
	assert.Equal(t, 9, countLinks(admin, "Y"))
	assert.Equal(t, 0, countLinks(admin, ""))

	_, env := a.do(call{
		method: http.MethodGet, path: "/api/authors/1", token: admin,
		headers: v1(map[string]string{"includeHATEOAS": "Y"}),
	})
	var author authorBody
	require.NoError(t, json.Unmarshal(env.Result, &author))
	assert.Equal(t, []link{
		{Href: "/api/authors/1", Rel: "self", Method: http.MethodGet},
		{Href: "/api/authors/1", Rel: "update-author", Method: http.MethodPut},
		{Href: "/api/authors/1", Rel: "delete-author", Method: http.MethodDelete},
	}, author.Links)
}

func TestBooksAreAdminOnly(t *testing.T) {
	a := newAPI(t)
	reader := a.register("reader@example.com")

	w, env := a.do(call{method: http.MethodGet, path: "/api/v1/books"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	w, env = a.do(call{method: http.MethodGet, path: "/api/v1/books", token: reader})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)

	w, _ = a.do(call{method: http.MethodGet, path: "/api/v1/books", token: "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.register(adminEmail)

	_, env := a.do(call{method: http.MethodGet, path: "/api/v1/books", token: admin})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)
	assert.Equal(t, []string{"there are no books"}, env.ErrorMessages)

	pratchett := a.createAuthor(admin, "Pratchett")
	gaiman := a.createAuthor(admin, "Gaiman")

	_, env = a.do(call{
		method: http.MethodPost, path: "/api/v1/books", token: admin,
		body: map[string]interface{}{"title": "Good Omens", "authorsIds": []int64{}},
	})
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	_, env = a.do(call{
		method: http.MethodPost, path: "/api/v1/books", token: admin,
		body: map[string]interface{}{"title": "Good Omens", "authorsIds": []int64{gaiman, 77}},
	})
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, []string{"one of the authors does not exist"}, env.ErrorMessages)

	bookID := a.createBook(admin, "Good Omens", gaiman, pratchett)

	// Author detail lists the book
	_, env = a.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/authors/%d", gaiman), headers: v1(nil)})
	assert.Contains(t, string(env.Result), `"bookList":[{"id":1,"title":"Good Omens"}]`)

	// Patch title
	_, env = a.do(call{
		method: http.MethodPatch, path: fmt.Sprintf("/api/v1/books/%d", bookID), token: admin,
		raw: `[{"op":"replace","path":"/title","value":"Good Omens (1990)"}]`,
	})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)

	// Export
	w, _ := a.do(call{method: http.MethodGet, path: "/api/v1/books/export", token: admin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())

	// Delete cascades, the author keeps existing with no books
	_, env = a.do(call{method: http.MethodDelete, path: fmt.Sprintf("/api/v1/books/%d", bookID), token: admin})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)
	_, env = a.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/authors/%d", gaiman), headers: v1(nil)})
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.NotContains(t, string(env.Result), "bookList")
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestReviews(t *testing.T) {
	a := newAPI(t)
	admin := a.register(adminEmail)
	reader := a.register("reader@example.com")
	bookID := a.createBook(admin, "Mort", a.createAuthor(admin, "Pratchett"))
	base := fmt.Sprintf("/api/books/%d/reviews", bookID)

	w, _ := a.do(call{method: http.MethodGet, path: base, headers: v1(nil)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, env := a.do(call{method: http.MethodGet, path: "/api/books/99/reviews", token: reader, headers: v1(nil)})
	assert.Equal(t, http.StatusNotFound, env.StatusCode)

	w, env = a.do(call{
		method: http.MethodPost, path: base, token: reader,
		body: map[string]string{"content": "Death is great"}, headers: v1(nil),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var review struct {
		ID     int64 `json:"id"`
		UserID int64 `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &review))
	assert.EqualValues(t, 2, review.UserID)
	assert.Equal(t, fmt.Sprintf("%s/%d", base, review.ID), w.Header().Get("Location"))

	w, env = a.do(call{method: http.MethodGet, path: base, token: reader, headers: v1(nil)})
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "1", w.Header().Get(pagination.HeaderTotalSizeRecords))

	_, env = a.do(call{
		method: http.MethodPut, path: fmt.Sprintf("%s/%d", base, review.ID), token: reader,
		body: map[string]string{"content": ""}, headers: v1(nil),
	})
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	_, env = a.do(call{method: http.MethodDelete, path: fmt.Sprintf("%s/%d", base, review.ID), token: reader, headers: v1(nil)})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)
}

func TestAccountsAndRootLinks(t *testing.T) {
	a := newAPI(t)
	admin := a.register(adminEmail)
	reader := a.register("reader@example.com")

	_, env := a.do(call{
		method: http.MethodPost, path: "/api/accounts/login",
		body: map[string]string{"email": "reader@example.com", "password": "nope"},
	})
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	rootLinks := func(token string) int {
		_, env := a.do(call{method: http.MethodGet, path: "/api/v1", token: token})
		var links []link
		require.NoError(t, json.Unmarshal(env.Result, &links))
		return len(links)
	}
	assert.Equal(t, 2, rootLinks(""))
	assert.Equal(t, 4, rootLinks(admin))

	w, _ := a.do(call{
		method: http.MethodPost, path: "/api/accounts/MakeAdmin", token: reader,
		body: map[string]string{"email": "reader@example.com"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, env = a.do(call{
		method: http.MethodPost, path: "/api/accounts/MakeAdmin", token: admin,
		body: map[string]string{"email": "reader@example.com"},
	})
	assert.Equal(t, http.StatusNoContent, env.StatusCode)

	_, env = a.do(call{method: http.MethodGet, path: "/api/accounts/RenewToken", token: reader})
	require.Equal(t, http.StatusOK, env.StatusCode)
	var renewed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &renewed))
	assert.Equal(t, 4, rootLinks(renewed.Token))
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"up","cache":"up"}`, string(env.Result))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
