package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/assignment"
	"github.com/sarafernandess/ifocus-app/internal/common"
)

type setAssignmentsReq struct {
	CourseID      string   `json:"courseId" binding:"required"`
	Role          string   `json:"role" binding:"required"`
	DisciplineIDs []string `json:"disciplineIds"`
}

// SetAssignments replaces the caller's discipline set for one course+role
// scope. An empty disciplineIds clears the scope.
func (h *Handler) SetAssignments(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}

	var req setAssignmentsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	role, err := assignment.ParseRole(req.Role)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	if err := h.Assignments.SetAssignments(c.Request.Context(), uid, req.CourseID, role, req.DisciplineIDs); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *Handler) GetAssignments(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	role, err := assignment.ParseRole(c.Query("role"))
	if err != nil {
		common.FailErr(c, err)
		return
	}

	discs, err := h.Assignments.GetAssignments(c.Request.Context(), uid, role)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"disciplines": discs})
}
