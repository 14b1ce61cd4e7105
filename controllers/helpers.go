package controllers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"foodgram/services"

	"github.com/gin-gonic/gin"
)

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		// non numeric ids never match a route object
		RespondError(c, "not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// QueryBool reads "1"/"true" as true; anything else is false.
func QueryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	}
	return false
}

// QueryInt reads a non-negative integer, or def when absent. A malformed
// value answers 400.
func QueryInt(c *gin.Context, name string, def int) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		RespondValidation(c, map[string][]string{name: {"a valid non-negative integer is required"}})
		return 0, false
	}
	return n, true
}

// Pagination is the page requested through ?page=&limit=.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Slice() services.Page {
	return services.Page{Offset: (p.Page - 1) * p.Limit, Limit: p.Limit}
}

// PaginationFromQuery reads page (1 based) and limit, capped by config.
// A page whose offset cannot be represented answers 404.
func PaginationFromQuery(c *gin.Context) (Pagination, bool) {
	p := Pagination{Page: 1, Limit: conf.Pagination.DefaultLimit}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > conf.Pagination.MaxLimit {
		p.Limit = conf.Pagination.MaxLimit
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n-1 > math.MaxInt32/p.Limit {
			RespondError(c, "invalid page", http.StatusNotFound)
			return Pagination{}, false
		}
		p.Page = n
	}
	return p, true
}

// PageResponse is a paginated list body.
type PageResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// RespondPage answers a page of results with absolute next/previous links.
// Pages past the last one answer 404; page 1 is always valid.
func RespondPage(c *gin.Context, p Pagination, count int64, results any) {
	offset := int64(p.Page-1) * int64(p.Limit)
	if p.Page > 1 && offset >= count {
		RespondError(c, "invalid page", http.StatusNotFound)
		return
	}

	resp := PageResponse{Count: count, Results: results}
	if offset+int64(p.Limit) < count {
		next := pageURL(c, p.Page+1)
		resp.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		resp.Previous = &prev
	}
	RespondSuccess(c, resp)
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
