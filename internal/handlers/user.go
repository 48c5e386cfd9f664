package handlers

import (
	"blogadmin/internal/apperr"
	"blogadmin/internal/middleware"
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Current 返回当前登录用户
func (h *UserHandler) Current(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, h.log, apperr.Unauthorized("not logged in", nil))
		return
	}
	OK(c, user)
}

func (h *UserHandler) FindAll(c *gin.Context) {
	page, err := h.users.FindAll(c.Request.Context(), listParams(c))
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, page)
}

// Register 管理员创建用户
func (h *UserHandler) Register(c *gin.Context) {
	var in services.UserInput
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	user, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var patch services.UserPatch
	if err := bindJSON(c, &patch); err != nil {
		Fail(c, h.log, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, user)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var in services.PasswordChange
	if err := bindJSON(c, &in); err != nil {
		Fail(c, h.log, err)
		return
	}
	user, err := h.users.UpdatePassword(c.Request.Context(), id, in)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	OK(c, user)
}
