package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamnet/internal/model"
)

func (s *Server) createPost(c *gin.Context) {
	var req model.CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := s.handlers.Posts.Insert(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) listPosts(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	posts, err := s.handlers.Posts.ListAll(c.Request.Context(), skip, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// getPost returns the full view and marks the caller's tagged-post
// notification as opened
func (s *Server) getPost(c *gin.Context) {
	viewer := principalFrom(c)
	post, err := s.handlers.Posts.GetByUID(c.Request.Context(), c.Param("uid"), viewer.UID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) updatePost(c *gin.Context) {
	var req model.UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := s.handlers.Posts.Update(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (s *Server) deletePost(c *gin.Context) {
	if err := s.handlers.Posts.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) searchPosts(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.handlers.Posts.Search(c.Request.Context(), criteria)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) likePost(c *gin.Context) {
	viewer := principalFrom(c)
	if err := s.handlers.Posts.Like(c.Request.Context(), c.Param("uid"), viewer.UID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

func (s *Server) unlikePost(c *gin.Context) {
	viewer := principalFrom(c)
	if err := s.handlers.Posts.Unlike(c.Request.Context(), c.Param("uid"), viewer.UID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unliked"})
}
