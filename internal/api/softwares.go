package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamnet/internal/model"
)

func (s *Server) createSoftware(c *gin.Context) {
	var req model.CreateSoftwareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	software, err := s.handlers.Softwares.Insert(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, software)
}

func (s *Server) listSoftwares(c *gin.Context) {
	softwares, err := s.handlers.Softwares.ListAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, softwares)
}

func (s *Server) getSoftware(c *gin.Context) {
	software, err := s.handlers.Softwares.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, software)
}

func (s *Server) updateSoftware(c *gin.Context) {
	var req model.UpdateSoftwareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	software, err := s.handlers.Softwares.Update(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, software)
}

func (s *Server) deleteSoftware(c *gin.Context) {
	if err := s.handlers.Softwares.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) searchSoftwares(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.handlers.Softwares.Search(c.Request.Context(), criteria)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
