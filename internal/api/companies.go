package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamnet/internal/model"
)

func (s *Server) createCompany(c *gin.Context) {
	var req model.CreateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := s.handlers.Companies.Insert(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.handlers.Companies.ListAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (s *Server) getCompany(c *gin.Context) {
	company, err := s.handlers.Companies.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) updateCompany(c *gin.Context) {
	var req model.UpdateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := s.handlers.Companies.Update(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

func (s *Server) deleteCompany(c *gin.Context) {
	if err := s.handlers.Companies.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) searchCompanies(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.handlers.Companies.Search(c.Request.Context(), criteria)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
