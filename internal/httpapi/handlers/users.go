package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/httpapi/middleware"
	"github.com/sarafernandess/ifocus-app/internal/identity"
)

type upsertProfileReq struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// UpsertMe syncs the caller's profile reference. Identity itself is owned
// by the external provider; this only stores what the engine must render.
func (h *Handler) UpsertMe(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	var req upsertProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}

	role := "student"
	if v, _ := c.Get(middleware.RoleKey); v == "admin" {
		role = "admin"
	}
	u := &identity.User{
		ID:    uid,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  role,
	}
	if err := h.Identities.Upsert(c.Request.Context(), u); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, u)
}

func (h *Handler) Me(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	u, err := h.Identities.Get(c.Request.Context(), uid)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, u)
}

// GetUserByID exposes the public subset of a profile.
func (h *Handler) GetUserByID(c *gin.Context) {
	u, err := h.Identities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"id":   u.ID,
		"name": u.Name,
	})
}
