package controllers

import (
	"context"
	"io"

	"github.com/IkhsanDimas/nega-chatbot/sources/storage"

	"github.com/google/uuid"
)

type FilesController struct {
	store *storage.MinIOClient
}

func NewFilesController(store *storage.MinIOClient) *FilesController {
	return &FilesController{store: store}
}

// Upload streams an attachment into the blob store and returns its public URL.
func (c *FilesController) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	return c.store.UploadChatFile(ctx, userID, filename, contentType, reader, size)
}
