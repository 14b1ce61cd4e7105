package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"foodgram/config"
	"foodgram/logging"
	"foodgram/models"
	"foodgram/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.Init(logging.Config{Level: "disabled"})
	os.Exit(m.Run())
}

func withConfig(t *testing.T, mutate func(*config.Configuration)) {
	t.Helper()
	prev := conf
	c := config.Default()
	c.Security.JwtSecret = "test-secret"
	if mutate != nil {
		mutate(&c)
	}
	conf = c
	t.Cleanup(func() { conf = prev })
}

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestTokenRoundTrip(t *testing.T) {
	withConfig(t, nil)

	token, err := issueToken(models.User{ID: 42})
	if err != nil {
		t.Fatal(err)
	}
	id, err := parseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	withConfig(t, nil)

	sign := func(claims jwt.RegisteredClaims, secret string, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	otherIssuer := valid()
	otherIssuer.Issuer = "someone-else"
	badSubject := valid()
	badSubject.Subject = "abc"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(valid(), "other-secret", jwt.SigningMethodHS256)},
		{"wrong algorithm", sign(valid(), "test-secret", jwt.SigningMethodHS512)},
		{"expired", sign(expired, "test-secret", jwt.SigningMethodHS256)},
		{"no expiry", sign(noExpiry, "test-secret", jwt.SigningMethodHS256)},
		{"other issuer", sign(otherIssuer, "test-secret", jwt.SigningMethodHS256)},
		{"non numeric subject", sign(badSubject, "test-secret", jwt.SigningMethodHS256)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseToken(tt.token); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Token abc", "abc", true},
		{"token  abc ", "abc", true},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, _ := testContext("/")
		c.Request.Header.Set("Authorization", tt.header)
		got, ok := bearerToken(c)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPaginationFromQuery(t *testing.T) {
	withConfig(t, func(c *config.Configuration) {
		c.Pagination.DefaultLimit = 6
		c.Pagination.MaxLimit = 50
	})

	tests := []struct {
		query string
		want  Pagination
		ok    bool
	}{
		{"", Pagination{Page: 1, Limit: 6}, true},
		{"page=3&limit=10", Pagination{Page: 3, Limit: 10}, true},
		{"limit=500", Pagination{Page: 1, Limit: 50}, true},
		{"limit=-2", Pagination{Page: 1, Limit: 6}, true},
		{"page=0", Pagination{}, false},
		{"page=x", Pagination{}, false},
		{"page=9223372036854775807", Pagination{}, false},
		{"page=9223372036854775807&limit=1", Pagination{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, w := testContext("/api/recipes?" + tt.query)
			got, ok := PaginationFromQuery(c)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				if w.Code != http.StatusNotFound {
					t.Errorf("status = %d, want 404", w.Code)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	slice := Pagination{Page: 3, Limit: 10}.Slice()
	if slice.Offset != 20 || slice.Limit != 10 {
		t.Errorf("Slice() = %+v", slice)
	}
}

func TestRespondPageLinks(t *testing.T) {
	c, w := testContext("/api/recipes?limit=2&page=2&tags=lunch")
	c.Request.Host = "foodgram.test"
	c.Request.Header.Set("X-Forwarded-Proto", "https")

	RespondPage(c, Pagination{Page: 2, Limit: 2}, 5, []int{3, 4})

	var body PageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 5 {
		t.Errorf("count = %d", body.Count)
	}
	if body.Next == nil || *body.Next != "https://foodgram.test/api/recipes?limit=2&page=3&tags=lunch" {
		t.Errorf("next = %v", body.Next)
	}
	if body.Previous == nil || *body.Previous != "https://foodgram.test/api/recipes?limit=2&tags=lunch" {
		t.Errorf("previous = %v", body.Previous)
	}

	c, w = testContext("/api/recipes?limit=2&page=3")
	RespondPage(c, Pagination{Page: 3, Limit: 2}, 5, []int{5})
	body = PageResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Next != nil {
		t.Errorf("next on last page = %v", *body.Next)
	}
}

func TestRespondPageOutOfRange(t *testing.T) {
	c, w := testContext("/api/recipes?limit=2&page=4")
	RespondPage(c, Pagination{Page: 4, Limit: 2}, 5, []int{})
	if w.Code != http.StatusNotFound {
		t.Errorf("page past the end: status = %d, want 404", w.Code)
	}

	c, w = testContext("/api/recipes")
	RespondPage(c, Pagination{Page: 1, Limit: 2}, 0, []int{})
	if w.Code != http.StatusOK {
		t.Fatalf("empty first page: status = %d, want 200", w.Code)
	}
	var body PageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Next != nil || body.Previous != nil {
		t.Errorf("links on empty page: next=%v previous=%v", body.Next, body.Previous)
	}
}

func TestQueryInt(t *testing.T) {
	c, _ := testContext("/?recipes_limit=3")
	if n, ok := QueryInt(c, "recipes_limit", 0); !ok || n != 3 {
		t.Errorf("got %d, %v", n, ok)
	}
	c, _ = testContext("/")
	if n, ok := QueryInt(c, "recipes_limit", 7); !ok || n != 7 {
		t.Errorf("default: got %d, %v", n, ok)
	}
	c, w := testContext("/?recipes_limit=-1")
	if _, ok := QueryInt(c, "recipes_limit", 0); ok || w.Code != http.StatusBadRequest {
		t.Errorf("negative: ok = %v, status = %d", ok, w.Code)
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", services.Invalid("name", "required"), http.StatusBadRequest},
		{"self subscription", services.ErrSelfSubscription, http.StatusBadRequest},
		{"duplicate subscription", services.ErrDuplicateSubscription, http.StatusBadRequest},
		{"already exists", fmt.Errorf("recipe is already in favorites: %w", services.ErrAlreadyExists), http.StatusBadRequest},
		{"not found", fmt.Errorf("recipe: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext("/")
			RespondServiceError(c, tt.err)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}

	c, w := testContext("/")
	RespondServiceError(c, services.Invalid("name", "required"))
	var body struct {
		Fields map[string][]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Fields["name"]) != 1 {
		t.Errorf("fields = %v", body.Fields)
	}

	c, w = testContext("/")
	RespondServiceError(c, errors.New("secret detail"))
	if got := w.Body.String(); got != `{"error":"internal server error"}` {
		t.Errorf("body = %s", got)
	}
}

func TestRecipeRequestInput(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("image data url", func(t *testing.T) {
		req := RecipeRequest{Image: str("data:image/png;base64,iVBORw0KGgo=")}
		in, err := req.input()
		if err != nil {
			t.Fatal(err)
		}
		if in.Image == nil || in.Image.Ext != "png" {
			t.Errorf("image = %+v", in.Image)
		}
	})

	t.Run("bad image", func(t *testing.T) {
		req := RecipeRequest{Image: str("http://example.com/a.png")}
		_, err := req.input()
		var verr *services.ValidationError
		if !errors.As(err, &verr) || len(verr.Fields["image"]) == 0 {
			t.Errorf("err = %v", err)
		}
	})

	tests := []struct {
		name   string
		author string
		want   *int64
	}{
		{"absent", "", nil},
		{"null", "null", nil},
		{"id", "5", ptr(int64(5))},
		{"object", `{"id": 5}`, ptr(int64(-1))},
	}
	for _, tt := range tests {
		t.Run("author "+tt.name, func(t *testing.T) {
			req := RecipeRequest{Author: json.RawMessage(tt.author)}
			in, err := req.input()
			if err != nil {
				t.Fatal(err)
			}
			switch {
			case tt.want == nil && in.AuthorID != nil:
				t.Errorf("author = %d, want none", *in.AuthorID)
			case tt.want != nil && (in.AuthorID == nil || *in.AuthorID != *tt.want):
				t.Errorf("author = %v, want %d", in.AuthorID, *tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
