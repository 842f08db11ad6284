package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/catalog"
	"github.com/sarafernandess/ifocus-app/internal/common"
)

type createCourseReq struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req createCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	course, err := h.Catalog.CreateCourse(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.Created(c, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	var upd catalog.CourseUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	course, err := h.Catalog.UpdateCourse(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, course)
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	if err := h.Catalog.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, nil)
}

type createDisciplineReq struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Semester int    `json:"semester" binding:"required"`
}

func (h *Handler) CreateDiscipline(c *gin.Context) {
	var req createDisciplineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	d, err := h.Catalog.CreateDiscipline(c.Request.Context(), c.Param("id"), req.Name, req.Code, req.Semester)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.Created(c, d)
}

func (h *Handler) UpdateDiscipline(c *gin.Context) {
	var upd catalog.DisciplineUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	d, err := h.Catalog.UpdateDiscipline(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, d)
}

func (h *Handler) DeleteDiscipline(c *gin.Context) {
	if err := h.Catalog.DeleteDiscipline(c.Request.Context(), c.Param("id")); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.Catalog.ListCourses(c.Request.Context())
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"courses": courses})
}

func (h *Handler) ListDisciplines(c *gin.Context) {
	bySemester := c.Query("order_by") == "semester"
	discs, err := h.Catalog.ListDisciplines(c.Request.Context(), c.Param("id"), bySemester)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"disciplines": discs})
}
