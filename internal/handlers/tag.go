package handlers

import (
	"blogadmin/internal/apperr"
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TagHandler struct {
	tags *services.TagService
	log  *zap.Logger
}

func NewTagHandler(tags *services.TagService, log *zap.Logger) *TagHandler {
	return &TagHandler{tags: tags, log: log}
}

func (h *TagHandler) Create(c *gin.Context) {
	var in services.LabelInput
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	tag, err := h.tags.Create(c.Request.Context(), in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Created(c, tag)
}

func (h *TagHandler) FindAll(c *gin.Context) {
	tags, err := h.tags.FindAll(c.Request.Context())
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, tags)
}

func (h *TagHandler) FindOne(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	tag, err := h.tags.FindOne(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, tag)
}

func (h *TagHandler) FindBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		Fail(c, h.log, apperr.Validation("slug is required"))
		return
	}
	tag, err := h.tags.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var patch services.LabelPatch
	if err := bindJSON(c, &patch); err != nil {
		Fail(c, h.log, err)
		return
	}
	tag, err := h.tags.Update(c.Request.Context(), id, patch)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, tag)
}

func (h *TagHandler) Remove(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	tag, err := h.tags.Remove(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, tag)
}

func (h *TagHandler) RemoveMany(c *gin.Context) {
	var req idsRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		Fail(c, h.log, err)
		return
	}
	removed, err := h.tags.RemoveMany(c.Request.Context(), req.IDs)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, removed)
}
