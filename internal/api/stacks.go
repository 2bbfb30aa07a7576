package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamnet/internal/model"
)

func (s *Server) createStack(c *gin.Context) {
	var req model.CreateStackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stack, err := s.handlers.Stacks.Insert(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stack)
}

func (s *Server) listStacks(c *gin.Context) {
	stacks, err := s.handlers.Stacks.ListAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stacks)
}

func (s *Server) getStack(c *gin.Context) {
	stack, err := s.handlers.Stacks.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stack)
}

func (s *Server) updateStack(c *gin.Context) {
	var req model.UpdateStackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stack, err := s.handlers.Stacks.Update(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func (s *Server) deleteStack(c *gin.Context) {
	if err := s.handlers.Stacks.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) searchStacks(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.handlers.Stacks.Search(c.Request.Context(), criteria)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
