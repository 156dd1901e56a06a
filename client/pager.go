package client

import (
	"context"
	"sync"
	projectDto "vprime/internal/domains/project/model/dto"
	testimonialDto "vprime/internal/domains/testimonial/model/dto"
)

// Page is one fetched page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

type PageFetcher[T any] func(ctx context.Context, page, limit int) (Page[T], error)

// Pager loads a listing page by page and keeps what it has loaded until Invalidate.
type Pager[T any] struct {
	fetch PageFetcher[T]
	limit int

	fetchMu sync.Mutex

	mu         sync.RWMutex
	pages      [][]T
	total      int
	totalPages int
	known      bool
	loading    bool
	err        error
	generation int
}

func NewPager[T any](limit int, fetch PageFetcher[T]) *Pager[T] {
	return &Pager[T]{
		fetch: fetch,
		limit: limit,
	}
}

// Next loads the page after the last loaded one. It is a no-op once the listing is exhausted.
func (p *Pager[T]) Next(ctx context.Context) error {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	if !p.HasNext() {
		return nil
	}

	p.mu.Lock()
	generation := p.generation
	page := len(p.pages) + 1
	p.loading = true
	p.mu.Unlock()

	res, err := p.fetch(ctx, page, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.loading = false

	// Invalidated while fetching: the result belongs to stale data.
	if generation != p.generation {
		return err
	}

	p.err = err
	if err != nil {
		return err
	}

	p.pages = append(p.pages, res.Items)
	p.total = res.Total
	p.totalPages = res.TotalPages
	p.known = true

	return nil
}

// Items returns every loaded item in page order.
func (p *Pager[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()

	items := []T{}
	for _, page := range p.pages {
		items = append(items, page...)
	}

	return items
}

func (p *Pager[T]) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.loading
}

func (p *Pager[T]) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.err
}

func (p *Pager[T]) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.total
}

// HasNext is true before the first load and while pages remain.
func (p *Pager[T]) HasNext() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return !p.known || len(p.pages) < p.totalPages
}

// Invalidate drops every loaded page so the next call refetches from page one.
func (p *Pager[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pages = nil
	p.total = 0
	p.totalPages = 0
	p.known = false
	p.err = nil
	p.generation++
}

// ProjectPager pages through the gallery with a fixed search and sort.
func (c *Client) ProjectPager(limit int, search, sort string) *Pager[projectDto.ProjectResponse] {
	return NewPager(limit, func(ctx context.Context, page, limit int) (Page[projectDto.ProjectResponse], error) {
		res, err := c.ListProjects(ctx, ListProjectsParams{Page: page, Limit: limit, Search: search, Sort: sort})

		return Page[projectDto.ProjectResponse]{Items: res.Projects, Total: res.Total, TotalPages: res.TotalPages}, err
	})
}

func (c *Client) TestimonialPager(limit int) *Pager[testimonialDto.TestimonialResponse] {
	return NewPager(limit, func(ctx context.Context, page, limit int) (Page[testimonialDto.TestimonialResponse], error) {
		res, err := c.ListTestimonials(ctx, page, limit)

		return Page[testimonialDto.TestimonialResponse]{Items: res.Testimonials, Total: res.Total, TotalPages: res.TotalPages}, err
	})
}
