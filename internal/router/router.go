package router

import (
	"blogadmin/internal/handlers"
	"blogadmin/internal/middleware"
	"blogadmin/internal/models"

	"github.com/gin-gonic/gin"
)

// Access levels of a route.
const (
	Public = ""
	User   = "user" // any authenticated user
	Admin  = models.RoleAdmin
)

type Route struct {
	Method  string
	Path    string
	Access  string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Comment  *handlers.CommentHandler
	Category *handlers.CategoryHandler
	Tag      *handlers.TagHandler
	Article  *handlers.ArticleHandler
	Health   *handlers.HealthHandler
}

// Routes is the full route table of the API.
func Routes(h Handlers) []Route {
	return []Route{
		{"GET", "/healthz", Public, h.Health.Healthz}, // 健康检查

		{"POST", "/auth/login", Public, h.Auth.Login}, // 登录，返回 token

		{"GET", "/users/current", User, h.User.Current},       // 当前用户
		{"GET", "/users", Public, h.User.FindAll},             // 用户列表
		{"POST", "/users", Admin, h.User.Register},            // 创建用户
		{"PUT", "/users/:id", Admin, h.User.Update},           // 修改资料
		{"PATCH", "/users/:id", Admin, h.User.UpdatePassword}, // 修改密码

		{"POST", "/comments", Public, h.Comment.Create},                        // 发表评论
		{"GET", "/comments", Public, h.Comment.FindAll},                        // 评论列表（含回复）
		{"GET", "/comments/list", Admin, h.Comment.FindList},                   // 平铺的评论列表
		{"GET", "/comments/count", Admin, h.Comment.Count},                     // 评论总数
		{"GET", "/comments/article/:id", Public, h.Comment.FindAllByArticleID}, // 文章下已审核的评论
		{"GET", "/comments/:id", Public, h.Comment.FindOne},                    // 评论详情
		{"PUT", "/comments/:id", Admin, h.Comment.Update},                      // 修改/审核评论
		{"DELETE", "/comments/:id", Admin, h.Comment.Remove},                   // 删除评论
		{"DELETE", "/comments", Admin, h.Comment.RemoveMany},                   // 批量删除

		{"POST", "/categories", Admin, h.Category.Create},
		{"GET", "/categories", Public, h.Category.FindAll},
		{"GET", "/categories/:id", Public, h.Category.FindOne},
		{"PUT", "/categories/:id", Admin, h.Category.Update},
		{"DELETE", "/categories/:id", Admin, h.Category.Remove},
		{"DELETE", "/categories", Admin, h.Category.RemoveMany},

		{"POST", "/tags", Admin, h.Tag.Create},
		{"GET", "/tags", Public, h.Tag.FindAll},
		{"GET", "/tags/slug/:slug", Public, h.Tag.FindBySlug},
		{"GET", "/tags/:id", Public, h.Tag.FindOne},
		{"PUT", "/tags/:id", Admin, h.Tag.Update},
		{"DELETE", "/tags/:id", Admin, h.Tag.Remove},
		{"DELETE", "/tags", Admin, h.Tag.RemoveMany},

		{"POST", "/articles", Admin, h.Article.Create},
		{"GET", "/articles/:id", Public, h.Article.FindOne},
	}
}

// RegisterRoutes mounts routes on r. Protected routes run
// authenticate, then the role gate, then the handler.
func RegisterRoutes(r gin.IRoutes, auth middleware.TokenValidator, routes []Route) {
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		switch rt.Access {
		case Public:
		case User:
			chain = append(chain, middleware.Authenticate(auth))
		default:
			chain = append(chain, middleware.Authenticate(auth), middleware.RequireRole(rt.Access))
		}
		chain = append(chain, rt.Handler)
		r.Handle(rt.Method, rt.Path, chain...)
	}
}
