package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/errorsx"
)

// StatusAvailable is reported for every stored document; the backing stores
// have no processing pipeline of their own.
const StatusAvailable = "Available"

// AllowedExtensions are the upload types the knowledge base accepts.
var AllowedExtensions = []string{".txt", ".pdf", ".docx", ".md"}

// Document describes one stored knowledge-base file.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Label formats the document the way the panel lists it.
func (d Document) Label() string {
	return d.Name + " - Status: " + d.Status
}

// Store is the document-store boundary.
type Store interface {
	Upload(ctx context.Context, filename string, data []byte) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id string) error
}

// CheckFilename rejects empty names, path components and unsupported types.
func CheckFilename(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == string(filepath.Separator) {
		return "", errorsx.Errorf(errorsx.ReasonValidation, "filename is required")
	}
	ext := strings.ToLower(filepath.Ext(clean))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return clean, nil
		}
	}
	return "", errorsx.Errorf(errorsx.ReasonValidation, "unsupported file type %q (allowed: %s)", ext, strings.Join(AllowedExtensions, ", "))
}

// ErrNotFound is returned by Delete for an unknown id.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("document %s not found", e.ID)
}
