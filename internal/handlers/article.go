package handlers

import (
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	articles *services.ArticleService
	log      *zap.Logger
}

func NewArticleHandler(articles *services.ArticleService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, log: log}
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var in services.ArticleInput
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	article, err := h.articles.Create(c.Request.Context(), in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Created(c, article)
}

func (h *ArticleHandler) FindOne(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	article, err := h.articles.FindOne(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, article)
}
