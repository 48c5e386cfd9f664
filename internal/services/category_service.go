package services

import (
	"context"
	"strings"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
)

// LabelInput is the payload shared by categories and tags. Value is the slug.
type LabelInput struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (in LabelInput) validate() error {
	if strings.TrimSpace(in.Label) == "" || strings.TrimSpace(in.Value) == "" {
		return apperr.Validation("label and value are required")
	}
	return nil
}

type LabelPatch struct {
	Label *string `json:"label"`
	Value *string `json:"value"`
}

// ensureFreeSlug fails with a conflict when another row of store already uses value.
func ensureFreeSlug[T any](ctx context.Context, store *repository.Store[T], value, entity string) error {
	taken, err := store.Exists(ctx, repository.Query{}.Eq("value", value))
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(entity + " already exists")
	}
	return nil
}

type CategoryService struct {
	categories *repository.Store[models.Category]
}

func NewCategoryService(categories *repository.Store[models.Category]) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, in LabelInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ensureFreeSlug(ctx, s.categories, in.Value, "category"); err != nil {
		return nil, err
	}
	c := &models.Category{Label: in.Label, Value: in.Value}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) FindAll(ctx context.Context, params ListParams) (*Page[models.Category], error) {
	p := params.normalized()
	return Paginate[models.Category](ctx, s.categories, repository.Query{}.OrderBy("created_at", false), p.Page, p.PageSize)
}

func (s *CategoryService) FindOne(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id uint, patch LabelPatch) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Value != nil && *patch.Value != c.Value {
		if err := ensureFreeSlug(ctx, s.categories, *patch.Value, "category"); err != nil {
			return nil, err
		}
		c.Value = *patch.Value
	}
	if patch.Label != nil {
		c.Label = *patch.Label
	}
	if err := (LabelInput{Label: c.Label, Value: c.Value}).validate(); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Remove(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Delete(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) RemoveMany(ctx context.Context, ids []uint) ([]models.Category, error) {
	found, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("category not found")
	}
	if err := s.categories.DeleteMany(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}
