package handlers

import (
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.log, err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	h.log.Info("user logged in", zap.String("name", req.Name))
	OK(c, token)
}
