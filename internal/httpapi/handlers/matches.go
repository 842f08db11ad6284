package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

func (h *Handler) FindHelpers(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	peers, err := h.Matches.FindHelpers(c.Request.Context(), uid)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"helpers": peers})
}

func (h *Handler) FindSeekers(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	peers, err := h.Matches.FindSeekers(c.Request.Context(), uid)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"seekers": peers})
}
