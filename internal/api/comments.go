package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamnet/internal/model"
)

func (s *Server) createComment(c *gin.Context) {
	var req model.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := s.handlers.Comments.Insert(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (s *Server) getComment(c *gin.Context) {
	comment, err := s.handlers.Comments.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (s *Server) updateComment(c *gin.Context) {
	var req model.UpdateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := s.handlers.Comments.Update(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.handlers.Comments.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) likeComment(c *gin.Context) {
	viewer := principalFrom(c)
	if err := s.handlers.Comments.Like(c.Request.Context(), c.Param("uid"), viewer.UID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

func (s *Server) unlikeComment(c *gin.Context) {
	viewer := principalFrom(c)
	if err := s.handlers.Comments.Unlike(c.Request.Context(), c.Param("uid"), viewer.UID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unliked"})
}
