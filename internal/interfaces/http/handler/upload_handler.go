package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

var allowedUploadExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// UploadHandler nhận ảnh bìa sách, lưu dưới tên uuid và trả về URL public.
type UploadHandler struct {
	dir        string
	publicPath string
	maxBytes   int64
	logger     logger.Logger
}

func NewUploadHandler(dir, publicPath string, maxSizeMB int, log logger.Logger) *UploadHandler {
	return &UploadHandler{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxBytes:   int64(maxSizeMB) << 20,
		logger:     log,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	if file.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only png, jpg, jpeg and webp files are accepted"})
		return
	}

	// Tên file gốc không bao giờ được dùng lại, tránh path traversal
	name := uuid.NewString() + ext
	dst := filepath.Join(h.dir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Error("save upload failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": fmt.Sprintf("%s/%s", h.publicPath, name)})
}
