package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Directions understood by UpdateComments.
const (
	CounterCreate = "create"
	CounterRemove = "remove"
)

type ArticleService struct {
	articles *repository.Store[models.Article]
}

func NewArticleService(articles *repository.Store[models.Article]) *ArticleService {
	return &ArticleService{articles: articles}
}

type ArticleInput struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	a := &models.Article{
		Title:      in.Title,
		Summary:    in.Summary,
		Content:    in.Content,
		Status:     in.Status,
		CategoryID: in.CategoryID,
	}
	if len(in.TagIDs) > 0 {
		if err := s.articles.DB(ctx).Where("id IN ?", in.TagIDs).Find(&a.Tags).Error; err != nil {
			return nil, fmt.Errorf("load tags: %w", err)
		}
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// FindOne loads an article with its category and tags.
func (s *ArticleService) FindOne(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	err := s.articles.DB(ctx).Preload("Category").Preload("Tags").First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find article %d: %w", id, err)
	}
	return &a, nil
}

// UpdateComments moves the comment counter of an article one step in the
// given direction and returns the article as stored afterwards. The counter
// never drops below zero.
func (s *ArticleService) UpdateComments(ctx context.Context, id uint, direction string) (*models.Article, error) {
	var expr clause.Expr
	switch direction {
	case CounterCreate:
		expr = gorm.Expr("comments + 1")
	case CounterRemove:
		expr = gorm.Expr("CASE WHEN comments > 0 THEN comments - 1 ELSE 0 END")
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown counter direction %q", direction))
	}

	res := s.articles.DB(ctx).Model(&models.Article{}).Where("id = ?", id).UpdateColumn("comments", expr)
	if res.Error != nil {
		return nil, fmt.Errorf("update comment counter of article %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("article not found")
	}
	return s.articles.FindByID(ctx, id)
}
