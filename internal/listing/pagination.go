package listing

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	PageSizeParam = "size"
	PageParam     = "page"
)

var ErrInvalidPage = errors.New("invalid page")

// Pagination is active for a request only when the caller sent the size
// query param. Page is 1-indexed.
type Pagination struct {
	Page int
	Size int
}

// PaginationFromRequest returns nil when the request did not ask for
// pagination, in which case the full result set is returned.
func PaginationFromRequest(r *http.Request) (*Pagination, error) {
	query := r.URL.Query()
	if !query.Has(PageSizeParam) {
		return nil, nil
	}

	p := &Pagination{
		Page: 1,
		Size: DefaultPageSize,
	}

	if size, err := strconv.Atoi(query.Get(PageSizeParam)); err == nil && size > 0 {
		p.Size = min(size, MaxPageSize)
	}

	if pageStr := query.Get(PageParam); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, ErrInvalidPage
		}
		// no result set is that large, and the offset would overflow
		if page > math.MaxInt/p.Size {
			return nil, ErrInvalidPage
		}
		p.Page = page
	}

	return p, nil
}

// Limit is nil for unpaginated requests; Postgres treats LIMIT NULL as no limit.
func (p *Pagination) Limit() *int {
	if p == nil {
		return nil
	}
	size := p.Size
	return &size
}

func (p *Pagination) Offset() int {
	if p == nil {
		return 0
	}
	return (p.Page - 1) * p.Size
}

func (p *Pagination) PagesCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.Size - 1) / p.Size
}

// CheckPage fails for a page past the last one. The first page of an
// empty result set is valid.
func (p *Pagination) CheckPage(total int) error {
	if p == nil {
		return nil
	}
	if p.Page > p.PagesCount(total) {
		return ErrInvalidPage
	}
	return nil
}

type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Results makes an empty result set serialize as [] rather than null.
func Results[T any](results []T) []T {
	if results == nil {
		return []T{}
	}
	return results
}

func NewPage[T any](r *http.Request, p *Pagination, total int, results []T) Page[T] {
	page := Page[T]{
		Count:   total,
		Results: Results(results),
	}

	if p.Page < p.PagesCount(total) {
		next := pageURL(r, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(r, p.Page-1)
		page.Previous = &prev
	}

	return page
}

func pageURL(r *http.Request, page int) string {
	u := url.URL{
		Scheme: "http",
		Host:   r.Host,
		Path:   r.URL.Path,
	}
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	query := r.URL.Query()
	if page == 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(page))
	}
	u.RawQuery = query.Encode()

	return u.String()
}
