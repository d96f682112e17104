package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companysvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) GetCompany(c *gin.Context) {
	company, err := s.companysvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	if err := s.companysvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
