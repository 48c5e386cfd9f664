package handlers

import (
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categories *services.CategoryService
	log        *zap.Logger
}

func NewCategoryHandler(categories *services.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.LabelInput
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Created(c, category)
}

func (h *CategoryHandler) FindAll(c *gin.Context) {
	page, err := h.categories.FindAll(c.Request.Context(), listParams(c))
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, page)
}

func (h *CategoryHandler) FindOne(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	category, err := h.categories.FindOne(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
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
	category, err := h.categories.Update(c.Request.Context(), id, patch)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, category)
}

func (h *CategoryHandler) Remove(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	category, err := h.categories.Remove(c.Request.Context(), id)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, category)
}

func (h *CategoryHandler) RemoveMany(c *gin.Context) {
	var req idsRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		Fail(c, h.log, err)
		return
	}
	removed, err := h.categories.RemoveMany(c.Request.Context(), req.IDs)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, removed)
}
