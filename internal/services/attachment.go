package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/storage"
	"github.com/collabhub/backend/pkg/response"
)

// MaxAttachmentsPerPost caps the attachment count on a single post. The cap
// is checked after applying an update's add/remove diff, so "remove 2, add
// 2" on a full post is legal.
const MaxAttachmentsPerPost = 5

// FileUpload is one incoming file, decoupled from the HTTP multipart form.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type AttachmentService struct {
	store storage.BlobStore
}

func NewAttachmentService(store storage.BlobStore) *AttachmentService {
	return &AttachmentService{store: store}
}

// ValidateBatch rejects the whole batch if any file is not an image, so a
// user never believes a silently dropped file was attached.
func (s *AttachmentService) ValidateBatch(files []FileUpload) error {
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return response.NewValidationError(
				fmt.Sprintf("attachment %q is not an image (%s); only image files are accepted", f.Name, f.ContentType))
		}
	}
	return nil
}

// StoreBatch writes every blob and returns attachment rows with sort orders
// starting at startOrder. PostID is filled in by the caller's transaction.
// Blobs are written before the post transaction commits: an aborted commit
// can orphan a blob, but a committed post never references a missing one.
func (s *AttachmentService) StoreBatch(ctx context.Context, files []FileUpload, startOrder int) ([]models.PostAttachment, error) {
	rows := make([]models.PostAttachment, 0, len(files))
	for i, f := range files {
		r, err := f.Open()
		if err != nil {
			return nil, err
		}
		path, err := s.store.Put(ctx, f.Name, f.ContentType, r, f.Size)
		r.Close()
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.PostAttachment{
			FilePath:    path,
			FileName:    f.Name,
			ContentType: f.ContentType,
			SortOrder:   startOrder + i,
		})
	}
	return rows, nil
}
