package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/internal/storage"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChannelHandler struct {
	postService *services.PostService
}

func NewChannelHandler(db *gorm.DB, store storage.BlobStore) *ChannelHandler {
	return &ChannelHandler{
		postService: services.NewPostService(db, store),
	}
}

// channelRef parses the channel address from the route parameters.
func channelRef(c *gin.Context) (services.ChannelRef, bool) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return services.ChannelRef{}, false
	}

	kind, ok := models.ParseChannelKind(c.Param("kind"))
	if !ok {
		response.BadRequest(c, "invalid channel kind; expected common or direct")
		return services.ChannelRef{}, false
	}

	partitionKey, err := strconv.ParseUint(c.Param("partition_key"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid partition key")
		return services.ChannelRef{}, false
	}

	return services.ChannelRef{
		ProjectID:    uint(projectID),
		Kind:         kind,
		PartitionKey: uint(partitionKey),
	}, true
}

// fileUploads adapts multipart file headers to service-level uploads.
func fileUploads(headers []*multipart.FileHeader) []services.FileUpload {
	files := make([]services.FileUpload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

// List returns a channel page and, as a side effect of success, resets the
// caller's unread counter for that channel.
// GET /api/channels/:project_id/:kind/:partition_key/posts
func (h *ChannelHandler) List(c *gin.Context) {
	ref, ok := channelRef(c)
	if !ok {
		return
	}

	var req services.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.postService.List(middleware.GetActor(c), ref, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Create writes a post with up to 5 image attachments (multipart form:
// title, content, files[]).
// POST /api/channels/:project_id/:kind/:partition_key/posts
func (h *ChannelHandler) Create(c *gin.Context) {
	ref, ok := channelRef(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "expected multipart form")
		return
	}

	req := services.CreatePostRequest{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Files:   fileUploads(form.File["files"]),
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.GetActor(c), ref, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"post_id": post.ID, "post": post})
}

// Get returns one post with its attachments
// GET /api/posts/:id
func (h *ChannelHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	post, err := h.postService.Get(middleware.GetActor(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// Update edits a post, applying the attachment diff (multipart form:
// title, content, delete_ids[], files[]).
// PUT /api/posts/:id
func (h *ChannelHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "expected multipart form")
		return
	}

	var removed []uint
	for _, raw := range form.Value["delete_ids"] {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid attachment id in delete_ids")
			return
		}
		removed = append(removed, uint(v))
	}

	req := services.UpdatePostRequest{
		Title:                c.PostForm("title"),
		Content:              c.PostForm("content"),
		AddedFiles:           fileUploads(form.File["files"]),
		RemovedAttachmentIDs: removed,
	}

	post, err := h.postService.Update(c.Request.Context(), middleware.GetActor(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// Delete soft-deletes a post; repeating it succeeds
// DELETE /api/posts/:id
func (h *ChannelHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	if err := h.postService.SoftDelete(middleware.GetActor(c), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "post deleted"})
}
