package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	ingestiondomain "github.com/smallbiznis/brokerage/internal/ingestion/domain"
)

// IngestPolicyFile accepts a multipart policy transaction export and runs
// the ingestion pipeline. company_id is optional; without it the company is
// resolved from the filename.
func (s *Server) IngestPolicyFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ingestiondomain.ErrInvalidFile)
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
		AbortWithError(c, ingestiondomain.ErrInvalidFile)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, ingestiondomain.ErrInvalidFile)
		return
	}

	batch, err := s.ingestionsvc.IngestFile(c.Request.Context(), ingestiondomain.IngestFileRequest{
		CompanyID: c.PostForm("company_id"),
		Filename:  fileHeader.Filename,
		Content:   content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}
