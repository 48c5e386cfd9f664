package handlers

import (
	"net/http"

	"blogadmin/internal/apperr"
	"blogadmin/internal/services"
	"blogadmin/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// reservedListKeys are list query fields that are not substring filters.
var reservedListKeys = map[string]bool{
	"page":      true,
	"page_size": true,
	"status":    true,
	"sort":      true,
}

// Fail writes err as {"statusCode", "message"}. Internal errors are logged
// and reported without detail.
func Fail(c *gin.Context, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{
		"statusCode": kind.Status(),
		"message":    apperr.Message(err),
	})
}

func OK(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}

func Created(c *gin.Context, v any) {
	c.JSON(http.StatusCreated, v)
}

// listParams reads page, page_size, status and sort. Every other query field
// becomes a filter.
func listParams(c *gin.Context) services.ListParams {
	p := services.ListParams{
		Page:     utils.PositiveInt(c.Query("page"), services.DefaultPage),
		PageSize: utils.PositiveInt(c.Query("page_size"), services.DefaultPageSize),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Filters:  map[string]string{},
	}
	for k, vs := range c.Request.URL.Query() {
		if reservedListKeys[k] || len(vs) == 0 {
			continue
		}
		p.Filters[k] = vs[0]
	}
	return p
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

// bindJSON decodes the request body into v.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

type idsRequest struct {
	IDs []uint `json:"ids"`
}

func (r idsRequest) validate() error {
	if len(r.IDs) == 0 {
		return apperr.Validation("ids are required")
	}
	return nil
}
