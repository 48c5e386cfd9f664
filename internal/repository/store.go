package repository

import (
	"context"
	"errors"
	"fmt"

	"blogadmin/internal/apperr"

	"gorm.io/gorm"
)

// Store is a single-table repository over gorm. Entity is the model name
// used in not-found messages.
type Store[T any] struct {
	db     *gorm.DB
	entity string
}

func NewStore[T any](db *gorm.DB, entity string) *Store[T] {
	return &Store[T]{db: db, entity: entity}
}

func (s *Store[T]) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store[T]) notFound() error {
	return apperr.NotFound(s.entity + " not found")
}

func (s *Store[T]) Create(ctx context.Context, v *T) error {
	if err := s.conn(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", s.entity, err)
	}
	return nil
}

func (s *Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	err := s.conn(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", s.entity, id, err)
	}
	return &v, nil
}

// FindByIDs returns the records that exist; unknown ids are skipped.
func (s *Store[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	out, err := s.Find(ctx, Query{}.In("id", values...).OrderBy("id", false))
	if err != nil {
		return nil, fmt.Errorf("find %s by ids: %w", s.entity, err)
	}
	return out, nil
}

// First returns the first record matching q, or a not-found error.
func (s *Store[T]) First(ctx context.Context, q Query) (*T, error) {
	var v T
	err := q.Apply(s.conn(ctx).Model(new(T))).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.entity, err)
	}
	return &v, nil
}

func (s *Store[T]) Exists(ctx context.Context, q Query) (bool, error) {
	n, err := s.Count(ctx, q)
	return n > 0, err
}

func (s *Store[T]) Find(ctx context.Context, q Query) ([]T, error) {
	out := []T{}
	if err := q.Apply(s.conn(ctx).Model(new(T))).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.entity, err)
	}
	return out, nil
}

// Count counts the rows matching the filters of q; window and order are ignored.
func (s *Store[T]) Count(ctx context.Context, q Query) (int64, error) {
	var n int64
	if err := q.Scope(s.conn(ctx).Model(new(T))).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", s.entity, err)
	}
	return n, nil
}

func (s *Store[T]) Save(ctx context.Context, v *T) error {
	if err := s.conn(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("save %s: %w", s.entity, err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, v *T) error {
	if err := s.conn(ctx).Delete(v).Error; err != nil {
		return fmt.Errorf("delete %s: %w", s.entity, err)
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, vs []T) error {
	if len(vs) == 0 {
		return nil
	}
	if err := s.conn(ctx).Delete(&vs).Error; err != nil {
		return fmt.Errorf("delete %s: %w", s.entity, err)
	}
	return nil
}

// DB exposes the underlying handle for statements the store does not cover.
func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.conn(ctx)
}
