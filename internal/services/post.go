package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/storage"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

type PostService struct {
	db          *gorm.DB
	channels    *ChannelService
	attachments *AttachmentService
	alerts      *AlertService
}

func NewPostService(db *gorm.DB, store storage.BlobStore) *PostService {
	return &PostService{
		db:          db,
		channels:    NewChannelService(db),
		attachments: NewAttachmentService(store),
		alerts:      NewAlertService(db),
	}
}

type CreatePostRequest struct {
	Title   string
	Content string
	Files   []FileUpload
}

// Create writes a post and its attachments, and bumps every other
// participant's unread counter, in one transaction. Blobs are persisted
// before the transaction so an abandoned upload can never leave a post
// referencing files that were not written.
func (s *PostService) Create(ctx context.Context, actor Actor, ref ChannelRef, req *CreatePostRequest) (*models.ChannelPost, error) {
	access, err := s.channels.Authorize(actor, ref)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, response.NewValidationError("title and content are required")
	}
	if len(req.Files) > MaxAttachmentsPerPost {
		return nil, response.NewValidationError(
			fmt.Sprintf("too many attachments: %d given, at most %d allowed", len(req.Files), MaxAttachmentsPerPost))
	}
	if err := s.attachments.ValidateBatch(req.Files); err != nil {
		return nil, err
	}

	rows, err := s.attachments.StoreBatch(ctx, req.Files, 0)
	if err != nil {
		return nil, err
	}

	post := models.ChannelPost{
		ProjectID:    ref.ProjectID,
		Kind:         ref.Kind,
		PartitionKey: ref.PartitionKey,
		CreatorID:    actor.UserID,
		Title:        req.Title,
		Content:      req.Content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].PostID = post.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return s.alerts.RecordPost(tx, access, ref, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	post.Attachments = rows
	return &post, nil
}

type PostListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type PostListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	PMID     uint                 `json:"pm_id"`
	Items    []models.ChannelPost `json:"items"`
}

// List returns a channel page, newest first with a stable ID tie-break, and
// the non-deleted total for page-count math. A successful list resets the
// viewer's unread counter for the channel; a failed one must not.
func (s *PostService) List(actor Actor, ref ChannelRef, req *PostListRequest) (*PostListResponse, error) {
	access, err := s.channels.Authorize(actor, ref)
	if err != nil {
		return nil, err
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.ChannelPost{}).
		Where("project_id = ? AND channel_kind = ? AND partition_key = ? AND is_deleted = ?",
			ref.ProjectID, ref.Kind, ref.PartitionKey, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.ChannelPost
	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if err := s.alerts.Reset(ref, actor.UserID); err != nil {
		return nil, err
	}

	return &PostListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		PMID:     access.Project.PMID,
		Items:    posts,
	}, nil
}

// Get returns one post with its ordered attachments. Soft-deleted posts
// stay addressable for the creator, the project PM and admins (audit view);
// everyone else gets not-found.
func (s *PostService) Get(actor Actor, postID uint) (*models.ChannelPost, error) {
	var post models.ChannelPost
	err := s.db.
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("post not found")
		}
		return nil, err
	}

	access, err := s.channels.Authorize(actor, postRef(&post))
	if err != nil {
		return nil, err
	}

	if post.IsDeleted && !s.canModerate(actor, access, &post) {
		return nil, response.NewNotFound("post not found")
	}
	return &post, nil
}

type UpdatePostRequest struct {
	Title                string
	Content              string
	AddedFiles           []FileUpload
	RemovedAttachmentIDs []uint
}

// Update edits a post and applies the attachment diff atomically: removals
// and additions commit together, and the 5-item cap is checked against the
// post-diff count.
func (s *PostService) Update(ctx context.Context, actor Actor, postID uint, req *UpdatePostRequest) (*models.ChannelPost, error) {
	var post models.ChannelPost
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("post not found")
		}
		return nil, err
	}
	if post.IsDeleted {
		return nil, response.NewNotFound("post not found")
	}

	access, err := s.channels.Authorize(actor, postRef(&post))
	if err != nil {
		return nil, err
	}
	if !s.canModerate(actor, access, &post) {
		return nil, response.NewForbidden("only the creator or the project PM may edit this post")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
		return nil, response.NewValidationError("title and content are required")
	}

	var existing []models.PostAttachment
	if err := s.db.Where("post_id = ?", postID).Order("sort_order ASC").Find(&existing).Error; err != nil {
		return nil, err
	}

	removed := make(map[uint]bool, len(req.RemovedAttachmentIDs))
	for _, id := range req.RemovedAttachmentIDs {
		removed[id] = true
	}
	kept := 0
	for _, a := range existing {
		if removed[a.ID] {
			delete(removed, a.ID)
		} else {
			kept++
		}
	}
	if len(removed) > 0 {
		return nil, response.NewValidationError("removed attachment id does not belong to this post")
	}

	// Cap applies to the state after the diff, not before it.
	if kept+len(req.AddedFiles) > MaxAttachmentsPerPost {
		return nil, response.NewValidationError(
			fmt.Sprintf("too many attachments: %d after update, at most %d allowed",
				kept+len(req.AddedFiles), MaxAttachmentsPerPost))
	}
	if err := s.attachments.ValidateBatch(req.AddedFiles); err != nil {
		return nil, err
	}

	maxOrder := -1
	for _, a := range existing {
		if !contains(req.RemovedAttachmentIDs, a.ID) && a.SortOrder > maxOrder {
			maxOrder = a.SortOrder
		}
	}

	added, err := s.attachments.StoreBatch(ctx, req.AddedFiles, maxOrder+1)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		}).Error; err != nil {
			return err
		}
		if len(req.RemovedAttachmentIDs) > 0 {
			// Unlinks the rows only; the blobs stay in storage.
			if err := tx.Where("post_id = ? AND id IN ?", postID, req.RemovedAttachmentIDs).
				Delete(&models.PostAttachment{}).Error; err != nil {
				return err
			}
		}
		for i := range added {
			added[i].PostID = postID
		}
		if len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(actor, postID)
}

// SoftDelete hides a post from listings while keeping it addressable for
// audit. Idempotent: deleting an already-deleted post succeeds, because the
// UI happily sends the same delete twice.
func (s *PostService) SoftDelete(actor Actor, postID uint) error {
	var post models.ChannelPost
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("post not found")
		}
		return err
	}

	access, err := s.channels.Authorize(actor, postRef(&post))
	if err != nil {
		return err
	}
	if !s.canModerate(actor, access, &post) {
		return response.NewForbidden("only the creator or the project PM may delete this post")
	}

	if post.IsDeleted {
		return nil
	}
	return s.db.Model(&post).UpdateColumn("is_deleted", true).Error
}

// canModerate reports whether the actor may edit/delete the post or see it
// after soft deletion: the creator, the project PM, or an admin.
func (s *PostService) canModerate(actor Actor, access *ChannelAccess, post *models.ChannelPost) bool {
	switch {
	case actor.Admin():
		return true
	case actor.UserID == post.CreatorID:
		return true
	case actor.UserID == access.Project.PMID:
		return true
	}
	return false
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
