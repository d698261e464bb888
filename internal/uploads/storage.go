package uploads

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Save stores an uploaded attachment under dir and returns the filename the
// claim record should reference. Collisions get a _N suffix so an earlier
// upload is never overwritten.
func Save(c *fiber.Ctx, fh *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := sanitizeFilename(fh.Filename)
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
			path = filepath.Join(dir, candidate)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				name = candidate
				break
			}
		}
	}

	if err := c.SaveFile(fh, path); err != nil {
		return "", err
	}
	return name, nil
}

// sanitizeFilename strips any path components from a client-supplied
// filename. A name that sanitizes to nothing gets a generated one.
func sanitizeFilename(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "")
	if name == "" || name == "." || name == ".." {
		return fmt.Sprintf("upload-%s.bin", uuid.NewString())
	}
	return name
}

// SafeName reports whether name is a plain filename with no path traversal.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return filepath.Base(name) == name
}
