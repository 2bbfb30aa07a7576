package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 8 << 20

// uploadAsset stores a multipart file and returns its public path
func (s *Server) uploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		s.writeError(c, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path, err := s.assets.Save(c.Request.Context(), ext, data)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) clearCaches(c *gin.Context) {
	if err := s.handlers.Admin.ClearCaches(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
