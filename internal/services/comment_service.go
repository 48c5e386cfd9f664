package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
	"blogadmin/internal/utils"

	"go.uber.org/zap"
)

// ArticleCounter keeps the per-article comment count.
type ArticleCounter interface {
	UpdateComments(ctx context.Context, id uint, direction string) (*models.Article, error)
}

// Dispatcher hands a message to the delivery pipeline without waiting.
type Dispatcher interface {
	Dispatch(m Message)
}

// commentFilterColumns lists the columns a list request may substring-match.
// Other query keys are ignored.
var commentFilterColumns = map[string]string{
	"name":    "name",
	"email":   "email",
	"content": "content",
	"site":    "site",
	"browser": "browser",
	"os":      "os",
	"ip":      "ip",
	"address": "address",
}

type CommentConfig struct {
	Owner   string // receives new top-level comment mails
	SiteURL string
}

type CommentService struct {
	comments *repository.Store[models.Comment]
	articles ArticleCounter
	notifier Dispatcher
	locator  utils.Locator
	cfg      CommentConfig
	log      *zap.Logger
}

func NewCommentService(
	comments *repository.Store[models.Comment],
	articles ArticleCounter,
	notifier Dispatcher,
	locator utils.Locator,
	cfg CommentConfig,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		articles: articles,
		notifier: notifier,
		locator:  locator,
		cfg:      cfg,
		log:      log,
	}
}

// CommentInput is what a reader submits. Device, address and status are
// never taken from the client.
type CommentInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Content   string `json:"content"`
	Site      string `json:"site"`
	Avatar    string `json:"avatar"`
	ArticleID *uint  `json:"article_id"`
	ParentID  *uint  `json:"parent_id"`
}

type CommentPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Content *string `json:"content"`
	Site    *string `json:"site"`
	Avatar  *string `json:"avatar"`
	Address *string `json:"address"`
	Status  *string `json:"status"`
}

// Thread is a top-level comment with its direct replies.
type Thread struct {
	models.Comment
	Replies []models.Comment `json:"replies"`
}

func (s *CommentService) Create(ctx context.Context, userAgent, ip string, in CommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("name, email and content are required")
	}

	device := utils.ParseUserAgent(userAgent)
	c := &models.Comment{
		Name:      in.Name,
		Email:     in.Email,
		Content:   in.Content,
		Site:      in.Site,
		Avatar:    in.Avatar,
		Browser:   device.Browser,
		OS:        device.OS,
		IP:        ip,
		Address:   s.locate(ctx, ip),
		ArticleID: in.ArticleID,
		ParentID:  in.ParentID,
		Status:    models.CommentPending,
	}
	if c.Avatar == "" {
		c.Avatar = utils.GravatarURL(c.Email)
	}

	var parent *models.Comment
	if c.ParentID != nil {
		p, err := s.comments.FindByID(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
		// Threads are one level deep: a reply to a reply joins the root thread.
		if p.ParentID != nil {
			c.ParentID = p.ParentID
		}
	}

	var article *models.Article
	if c.ArticleID != nil {
		a, err := s.articles.UpdateComments(ctx, *c.ArticleID, CounterCreate)
		if err != nil {
			return nil, err
		}
		article = a
	}

	if err := s.comments.Create(ctx, c); err != nil {
		if article != nil {
			s.rollbackCounter(ctx, article.ID)
		}
		return nil, err
	}

	s.log.Info("comment created",
		zap.Uint("comment_id", c.ID),
		zap.String("name", c.Name),
		zap.String("excerpt", utils.Excerpt(c.Content, 40)))
	s.notifyCreated(c, parent, article)
	return c, nil
}

// locate never fails: lookup errors and empty answers become utils.Unknown.
func (s *CommentService) locate(ctx context.Context, ip string) string {
	if ip == "" || s.locator == nil {
		return utils.Unknown
	}
	address, err := s.locator.Locate(ctx, ip)
	if err != nil {
		s.log.Debug("ip lookup failed", zap.String("ip", ip), zap.Error(err))
		return utils.Unknown
	}
	if address == "" {
		return utils.Unknown
	}
	return address
}

func (s *CommentService) rollbackCounter(ctx context.Context, articleID uint) {
	if _, err := s.articles.UpdateComments(ctx, articleID, CounterRemove); err != nil {
		s.log.Error("failed to roll back comment counter",
			zap.Uint("article_id", articleID), zap.Error(err))
	}
}

func (s *CommentService) notifyCreated(c *models.Comment, parent *models.Comment, article *models.Article) {
	if parent == nil {
		title := ""
		if article != nil {
			title = article.Title
		}
		body, err := NewCommentHTML(title, c.Content, c.Name, c.Site, s.cfg.SiteURL)
		if err != nil {
			s.log.Error("failed to render new comment mail", zap.Uint("comment_id", c.ID), zap.Error(err))
			return
		}
		if s.cfg.Owner == "" {
			s.log.Debug("no owner address, skipping new comment mail", zap.Uint("comment_id", c.ID))
			return
		}
		s.notifier.Dispatch(Message{To: s.cfg.Owner, Subject: SubjectNewComment, HTML: body})
		return
	}

	body, err := ReplyCommentHTML(c.Name, parent.Content, c.Content, c.Site, s.cfg.SiteURL)
	if err != nil {
		s.log.Error("failed to render reply mail", zap.Uint("comment_id", c.ID), zap.Error(err))
		return
	}
	s.notifier.Dispatch(Message{To: parent.Email, Subject: SubjectReply, HTML: body})
}

// FindAll pages top-level comments, newest first, each with its replies.
func (s *CommentService) FindAll(ctx context.Context, params ListParams) (*Page[Thread], error) {
	p := params.normalized()

	q := repository.Query{}.IsNull("parent_id").OrderBy("created_at", true)
	replies := repository.Query{}.OrderBy("created_at", false)
	if p.Status != "" {
		q = q.Eq("status", p.Status)
		replies = replies.Eq("status", p.Status)
	}
	q = applyCommentFilters(q, p.Filters)

	page, err := Paginate[models.Comment](ctx, s.comments, q, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return s.withReplies(ctx, page, replies)
}

// FindList pages every comment regardless of nesting, newest first.
func (s *CommentService) FindList(ctx context.Context, params ListParams) (*Page[models.Comment], error) {
	p := params.normalized()

	q := repository.Query{}.OrderBy("created_at", true)
	if p.Status != "" {
		q = q.Eq("status", p.Status)
	}
	q = applyCommentFilters(q, p.Filters)

	return Paginate[models.Comment](ctx, s.comments, q, p.Page, p.PageSize)
}

// FindAllByArticleID pages the published threads of one article. Sort "-1"
// (the default) is newest first, anything else oldest first.
func (s *CommentService) FindAllByArticleID(ctx context.Context, articleID uint, params ListParams) (*Page[Thread], error) {
	p := params.normalized()
	desc := p.Sort == "" || p.Sort == "-1"

	q := repository.Query{}.
		IsNull("parent_id").
		Eq("article_id", articleID).
		Eq("status", models.CommentPublished).
		OrderBy("created_at", desc)
	replies := repository.Query{}.
		Eq("status", models.CommentPublished).
		OrderBy("created_at", false)

	page, err := Paginate[models.Comment](ctx, s.comments, q, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return s.withReplies(ctx, page, replies)
}

func applyCommentFilters(q repository.Query, filters map[string]string) repository.Query {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := commentFilterColumns[k]
		if !ok || filters[k] == "" {
			continue
		}
		q = q.Like(col, filters[k])
	}
	return q
}

func (s *CommentService) withReplies(ctx context.Context, page *Page[models.Comment], replies repository.Query) (*Page[Thread], error) {
	out := MapPage(page, func(c models.Comment) Thread {
		return Thread{Comment: c, Replies: []models.Comment{}}
	})
	for i := range out.Data {
		children, err := s.comments.Find(ctx, replies.Eq("parent_id", out.Data[i].ID))
		if err != nil {
			return nil, err
		}
		out.Data[i].Replies = children
	}
	return out, nil
}

func (s *CommentService) FindOne(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

// Update overwrites the fields present in patch and keeps the rest.
func (s *CommentService) Update(ctx context.Context, id uint, patch CommentPatch) (*models.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Name, patch.Name)
	set(&c.Email, patch.Email)
	set(&c.Content, patch.Content)
	set(&c.Site, patch.Site)
	set(&c.Avatar, patch.Avatar)
	set(&c.Address, patch.Address)
	set(&c.Status, patch.Status)

	if err := s.comments.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove deletes one comment and gives back its article counter slot.
// Replies of the comment are left in place.
func (s *CommentService) Remove(ctx context.Context, id uint) (*models.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.releaseCounter(ctx, c); err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveMany deletes the comments that exist among ids. It fails only when
// none of them does.
func (s *CommentService) RemoveMany(ctx context.Context, ids []uint) ([]models.Comment, error) {
	found, err := s.comments.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("comment not found")
	}
	for i := range found {
		if err := s.releaseCounter(ctx, &found[i]); err != nil {
			return nil, err
		}
	}
	if err := s.comments.DeleteMany(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// releaseCounter decrements the article counter. A vanished article is not
// an error: there is nothing left to keep consistent.
func (s *CommentService) releaseCounter(ctx context.Context, c *models.Comment) error {
	if c.ArticleID == nil {
		return nil
	}
	_, err := s.articles.UpdateComments(ctx, *c.ArticleID, CounterRemove)
	if errors.Is(err, apperr.ErrNotFound) {
		s.log.Warn("comment references a missing article",
			zap.Uint("comment_id", c.ID), zap.Uint("article_id", *c.ArticleID))
		return nil
	}
	return err
}

func (s *CommentService) Count(ctx context.Context) (int64, error) {
	return s.comments.Count(ctx, repository.Query{})
}
