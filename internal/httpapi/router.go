package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/config"
	"github.com/sarafernandess/ifocus-app/internal/httpapi/handlers"
	"github.com/sarafernandess/ifocus-app/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	// public catalog reads
	r.GET("/courses", h.ListCourses)
	r.GET("/courses/:id/disciplines", h.ListDisciplines)
	r.GET("/users/:id", h.GetUserByID)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))

	authGroup.PUT("/me", h.UpsertMe)
	authGroup.GET("/me", h.Me)

	authGroup.PUT("/assignments", h.SetAssignments)
	authGroup.GET("/assignments", h.GetAssignments)

	authGroup.GET("/matches/helpers", h.FindHelpers)
	authGroup.GET("/matches/seekers", h.FindSeekers)

	authGroup.POST("/sessions", h.OpenSession)
	authGroup.GET("/sessions", h.ListSessions)
	authGroup.POST("/sessions/:id/messages", h.PostMessage)
	authGroup.GET("/sessions/:id/messages", h.ListMessages)
	authGroup.GET("/sessions/:id/unread", h.GetUnread)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AdminRequired())

	admin.POST("/courses", h.CreateCourse)
	admin.PATCH("/courses/:id", h.UpdateCourse)
	admin.DELETE("/courses/:id", h.DeleteCourse)
	admin.POST("/courses/:id/disciplines", h.CreateDiscipline)
	admin.PATCH("/disciplines/:id", h.UpdateDiscipline)
	admin.DELETE("/disciplines/:id", h.DeleteDiscipline)

	return r
}
