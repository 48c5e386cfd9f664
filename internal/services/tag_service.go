package services

import (
	"context"
	"fmt"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
)

type TagService struct {
	tags *repository.Store[models.Tag]
}

func NewTagService(tags *repository.Store[models.Tag]) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) Create(ctx context.Context, in LabelInput) (*models.Tag, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ensureFreeSlug(ctx, s.tags, in.Value, "tag"); err != nil {
		return nil, err
	}
	t := &models.Tag{Label: in.Label, Value: in.Value}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// FindAll lists every tag, oldest first. Tag clouds are small so there is
// no paging.
func (s *TagService) FindAll(ctx context.Context) ([]models.Tag, error) {
	return s.tags.Find(ctx, repository.Query{}.OrderBy("created_at", false))
}

func (s *TagService) FindOne(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tags.FindByID(ctx, id)
}

func (s *TagService) FindBySlug(ctx context.Context, value string) (*models.Tag, error) {
	return s.tags.First(ctx, repository.Query{}.Eq("value", value))
}

func (s *TagService) Update(ctx context.Context, id uint, patch LabelPatch) (*models.Tag, error) {
	t, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Value != nil && *patch.Value != t.Value {
		if err := ensureFreeSlug(ctx, s.tags, *patch.Value, "tag"); err != nil {
			return nil, err
		}
		t.Value = *patch.Value
	}
	if patch.Label != nil {
		t.Label = *patch.Label
	}
	if err := (LabelInput{Label: t.Label, Value: t.Value}).validate(); err != nil {
		return nil, err
	}
	if err := s.tags.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TagService) Remove(ctx context.Context, id uint) (*models.Tag, error) {
	t, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.detach(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := s.tags.Delete(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TagService) RemoveMany(ctx context.Context, ids []uint) ([]models.Tag, error) {
	found, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("tag not found")
	}
	ids = make([]uint, len(found))
	for i := range found {
		ids[i] = found[i].ID
	}
	if err := s.detach(ctx, ids...); err != nil {
		return nil, err
	}
	if err := s.tags.DeleteMany(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// detach drops the article links of the given tags so the join table never
// points at a deleted tag.
func (s *TagService) detach(ctx context.Context, ids ...uint) error {
	if err := s.tags.DB(ctx).Exec("DELETE FROM article_tags WHERE tag_id IN ?", ids).Error; err != nil {
		return fmt.Errorf("detach tags from articles: %w", err)
	}
	return nil
}
