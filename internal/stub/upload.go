package stub

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// upload handles POST /api/upload (multipart, field "file") and returns
// the URL the saved file is reachable under.
func (s *Server) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, 400, "Missing file in form data")
	}
	if s.cfg.MaxFileSize > 0 && file.Size > s.cfg.MaxFileSize {
		return respondError(c, 413,
			fmt.Sprintf("File too large: %d bytes (max %d)", file.Size, s.cfg.MaxFileSize))
	}

	dir := s.cfg.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	fileID := uuid.New().String()
	name := fileID + "_" + filepath.Base(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	return respond(c, 201, fiber.Map{"url": "/uploads/" + name})
}
