package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/middleware"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
	"github.com/edunex/portal-academico-api/pkg/storage"
)

// DocumentHandler manages document and media uploads through the bucket
// store collaborator.
type DocumentHandler struct {
	store          *storage.BucketStore
	documentBucket string
	mediaBucket    string
	logger         *zap.Logger
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(store *storage.BucketStore, documentBucket, mediaBucket string, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{
		store:          store,
		documentBucket: documentBucket,
		mediaBucket:    mediaBucket,
		logger:         logger,
	}
}

type uploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (h *DocumentHandler) bucketFor(kind storage.Kind) string {
	if kind == storage.KindMedia {
		return h.mediaBucket
	}
	return h.documentBucket
}

func (h *DocumentHandler) upload(c *gin.Context, kind storage.Kind) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if err := h.store.Validate(kind, mimeType, fileHeader.Size); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	folder := c.DefaultPostForm("folder", actor.ID)
	path := storage.ObjectPath(folder, fileHeader.Filename)

	bucket := h.bucketFor(kind)
	url, err := h.store.Upload(bucket, path, data)
	if err != nil {
		h.logger.Sugar().Errorw("upload failed", "bucket", bucket, "path", path, "error", err)
		response.Error(c, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store file"))
		return
	}

	response.Created(c, uploadResult{Path: path, URL: url})
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document file"
// @Param folder formData string false "Target folder"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	h.upload(c, storage.KindDocument)
}

// UploadMedia godoc
// @Summary Upload a media file
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Media file"
// @Param folder formData string false "Target folder"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /media [post]
func (h *DocumentHandler) UploadMedia(c *gin.Context) {
	h.upload(c, storage.KindMedia)
}

// DeleteDocument godoc
// @Summary Delete a stored document
// @Description Deletion is best-effort; missing objects are not an error
// @Tags Documents
// @Security BearerAuth
// @Param path query string true "Object path"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /documents [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "path is required"))
		return
	}

	if err := h.store.Delete(h.documentBucket, path); err != nil {
		h.logger.Sugar().Warnw("document delete failed", "path", path, "error", err)
	}
	response.NoContent(c)
}
