package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
)

func (s *Server) ListPolicyRecords(c *gin.Context) {
	resp, err := s.policysvc.List(c.Request.Context(), policydomain.ListPolicyRequest{
		CompanyID:  c.Query("company_id"),
		IssueYear:  parseIntQuery(c, "issue_year"),
		IssueMonth: parseIntQuery(c, "issue_month"),
		PageToken:  c.Query("page_token"),
		PageSize:   int32(parseIntQuery(c, "page_size")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
