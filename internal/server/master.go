package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
)

// UploadRateTable accepts a multipart rate table file. The owning company
// is created on first upload, named from the file unless company_name is
// supplied.
func (s *Server) UploadRateTable(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, masterdomain.ErrInvalidFile)
		return
	}
	if fileHeader.Size > s.cfg.MaxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": gin.H{
			"type":    "file_too_large",
			"message": "uploaded file exceeds the size limit",
		}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, masterdomain.ErrInvalidFile)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, masterdomain.ErrInvalidFile)
		return
	}

	result, err := s.mastersvc.UploadRateTable(c.Request.Context(), masterdomain.UploadRateTableRequest{
		Filename:    fileHeader.Filename,
		Content:     content,
		CompanyName: c.PostForm("company_name"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ListMasterRules(c *gin.Context) {
	rules, err := s.mastersvc.ListByCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

type updateRuleBody struct {
	ProductName    *string  `json:"product_name"`
	ProductVariant *string  `json:"product_variant"`
	PolicyTerm     *int     `json:"policy_term"`
	PPTMin         *int     `json:"ppt_min"`
	PPTMax         *int     `json:"ppt_max"`
	TotalPct       *float64 `json:"total_pct"`
	CommissionPct  *float64 `json:"commission_pct"`
	RewardPct      *float64 `json:"reward_pct"`
	LoadingPct     *float64 `json:"loading_pct"`
}

func (s *Server) UpdateMasterRule(c *gin.Context) {
	var body updateRuleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, masterdomain.ErrInvalidRule)
		return
	}

	rule, err := s.mastersvc.Update(c.Request.Context(), masterdomain.UpdateRuleRequest{
		CompanyID:      c.Param("id"),
		RuleID:         c.Param("rule_id"),
		ProductName:    body.ProductName,
		ProductVariant: body.ProductVariant,
		PolicyTerm:     body.PolicyTerm,
		PPTMin:         body.PPTMin,
		PPTMax:         body.PPTMax,
		TotalPct:       body.TotalPct,
		CommissionPct:  body.CommissionPct,
		RewardPct:      body.RewardPct,
		LoadingPct:     body.LoadingPct,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) DeleteMasterRule(c *gin.Context) {
	if err := s.mastersvc.Delete(c.Request.Context(), c.Param("id"), c.Param("rule_id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseIntQuery reads an optional integer query parameter.
func parseIntQuery(c *gin.Context, name string) int {
	value := c.Query(name)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
