package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/assignment"
	"github.com/sarafernandess/ifocus-app/internal/catalog"
	"github.com/sarafernandess/ifocus-app/internal/config"
	"github.com/sarafernandess/ifocus-app/internal/httpapi/middleware"
	"github.com/sarafernandess/ifocus-app/internal/identity"
	"github.com/sarafernandess/ifocus-app/internal/match"
	"github.com/sarafernandess/ifocus-app/internal/session"
	"github.com/sarafernandess/ifocus-app/internal/store/redisstore"
)

type Handler struct {
	Cfg         config.Config
	Catalog     *catalog.Service
	Assignments *assignment.Service
	Matches     *match.Service
	Sessions    *session.Service
	Identities  *identity.Repo
	Redis       *redisstore.Store // nil when redis is not configured
}

func NewHandler(
	cfg config.Config,
	catalogSvc *catalog.Service,
	assignments *assignment.Service,
	matches *match.Service,
	sessions *session.Service,
	identities *identity.Repo,
	rds *redisstore.Store,
) *Handler {
	return &Handler{
		Cfg:         cfg,
		Catalog:     catalogSvc,
		Assignments: assignments,
		Matches:     matches,
		Sessions:    sessions,
		Identities:  identities,
		Redis:       rds,
	}
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
