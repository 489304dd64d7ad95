package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the prebuilt frontend bundle
type Handler struct {
	dir string
}

// NewHandler serves files from dir; an empty dir disables static serving
func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	h.serve(c, "index.html")
}

// Serve handles unmatched routes: GET and HEAD map to files under dir, everything else is 404
func (h *Handler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		common.RespondError(c, common.ErrNotFound)
		return
	}
	h.serve(c, c.Request.URL.Path)
}

func (h *Handler) serve(c *gin.Context, name string) {
	full, ok := h.resolve(name)
	if !ok {
		common.RespondError(c, common.ErrNotFound)
		return
	}
	c.File(full)
}

// resolve maps a URL path onto a regular file below dir
func (h *Handler) resolve(name string) (string, bool) {
	if h.dir == "" {
		return "", false
	}

	// Clean against root so ".." can never climb out of dir
	rel := path.Clean("/" + name)
	if rel == "/" {
		rel = "/index.html"
	}
	full := filepath.Join(h.dir, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		if !os.IsNotExist(err) {
			common.LogWarn("Static file lookup failed", zap.String("path", full), zap.Error(err))
		}
		return "", false
	}
	if info.IsDir() {
		return "", false
	}
	return full, true
}
