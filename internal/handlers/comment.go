package handlers

import (
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *services.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

// Create 发表评论，不需要登录
func (h *CommentHandler) Create(c *gin.Context) {
	var in services.CommentInput
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), c.GetHeader("User-Agent"), c.ClientIP(), in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Created(c, comment)
}

func (h *CommentHandler) FindAll(c *gin.Context) {
	page, err := h.comments.FindAll(c.Request.Context(), listParams(c))
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, page)
}

func (h *CommentHandler) FindList(c *gin.Context) {
	page, err := h.comments.FindList(c.Request.Context(), listParams(c))
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, page)
}

func (h *CommentHandler) FindAllByArticleID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	page, err := h.comments.FindAllByArticleID(c.Request.Context(), id, listParams(c))
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, page)
}

func (h *CommentHandler) FindOne(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	comment, err := h.comments.FindOne(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var patch services.CommentPatch
	if err := bindJSON(c, &patch); err != nil {
		Fail(c, h.log, err)
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), id, patch)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, comment)
}

func (h *CommentHandler) Remove(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	comment, err := h.comments.Remove(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, comment)
}

// RemoveMany 批量删除，body: {"ids": [1, 2]}
func (h *CommentHandler) RemoveMany(c *gin.Context) {
	var req idsRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		Fail(c, h.log, err)
		return
	}
	removed, err := h.comments.RemoveMany(c.Request.Context(), req.IDs)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, removed)
}

func (h *CommentHandler) Count(c *gin.Context) {
	n, err := h.comments.Count(c.Request.Context())
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, gin.H{"count": n})
}
