package services

import (
	"context"
	"math"

	"blogadmin/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

type Page[T any] struct {
	Data      []T   `json:"data"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	TotalPage int   `json:"totalPage"`
}

// ListParams carries the list query of a request. Filters holds the extra
// query fields that become substring matches.
type ListParams struct {
	Page     int
	PageSize int
	Status   string
	Sort     string
	Filters  map[string]string
}

func (p ListParams) normalized() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

type pageSource[T any] interface {
	Find(ctx context.Context, q repository.Query) ([]T, error)
	Count(ctx context.Context, q repository.Query) (int64, error)
}

// Paginate fetches one page of q and the total row count under the same
// filters. page and pageSize must already be positive.
func Paginate[T any](ctx context.Context, src pageSource[T], q repository.Query, page, pageSize int) (*Page[T], error) {
	q = q.Page((page-1)*pageSize, pageSize)

	var (
		data  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = src.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = src.Count(gctx, q.Unpaged())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page[T]{
		Data:      data,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		TotalPage: TotalPages(total, pageSize),
	}, nil
}

// TotalPages is ceil(total/pageSize), never less than 1.
func TotalPages(total int64, pageSize int) int {
	n := int(math.Ceil(float64(total) / float64(pageSize)))
	if n == 0 {
		n = 1
	}
	return n
}

// MapPage converts the rows of a page, keeping the counters.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Data))
	for i, v := range p.Data {
		out[i] = fn(v)
	}
	return &Page[U]{
		Data:      out,
		Total:     p.Total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		TotalPage: p.TotalPage,
	}
}
