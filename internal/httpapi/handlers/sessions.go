package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

type openSessionReq struct {
	PeerID string `json:"peerId" binding:"required"`
}

func (h *Handler) OpenSession(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	var req openSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	sess, err := h.Sessions.OpenSession(c.Request.Context(), uid, req.PeerID)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, sess)
}

func (h *Handler) ListSessions(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	sessions, err := h.Sessions.ListSessions(c.Request.Context(), uid)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"sessions": sessions})
}

type postMessageReq struct {
	Body string `json:"body"`
}

func (h *Handler) PostMessage(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40000, "invalid json")
		return
	}
	msg, err := h.Sessions.PostMessage(c.Request.Context(), c.Param("id"), uid, req.Body)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.Created(c, msg)
}

// ListMessages supports incremental polling via after_seq. Reading also
// clears the caller's unread counter for the session.
func (h *Handler) ListMessages(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	sessionID := c.Param("id")

	var afterSeq uint64
	if v := c.Query("after_seq"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			afterSeq = n
		}
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	msgs, err := h.Sessions.ListMessages(c.Request.Context(), sessionID, uid, afterSeq, limit)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	if h.Redis != nil {
		if err := h.Redis.ResetUnread(c.Request.Context(), sessionID, uid); err != nil {
			log.Printf("reset unread failed session=%s user=%s: %v", sessionID, uid, err)
		}
	}

	var nextAfterSeq uint64 = afterSeq
	if len(msgs) > 0 {
		nextAfterSeq = msgs[len(msgs)-1].Seq
	}
	common.OK(c, gin.H{
		"messages":       msgs,
		"next_after_seq": nextAfterSeq,
	})
}

func (h *Handler) GetUnread(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}
	sessionID := c.Param("id")
	if _, err := h.Sessions.GetForParticipant(c.Request.Context(), sessionID, uid); err != nil {
		common.FailErr(c, err)
		return
	}

	var count int64
	if h.Redis != nil {
		n, err := h.Redis.GetUnread(c.Request.Context(), sessionID, uid)
		if err != nil {
			log.Printf("get unread failed session=%s user=%s: %v", sessionID, uid, err)
		} else {
			count = n
		}
	}
	common.OK(c, gin.H{"unread": count})
}
