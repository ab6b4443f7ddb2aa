package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/attachment"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// uploadField is the multipart field carrying an uploaded file
const uploadField = "file"

// pathUUID parses a uuid path parameter, answering 400 when it is malformed
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body and answers with field details on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters and answers with field details on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// readUpload reads the multipart file field. Content type comes from the part
// header and falls back to sniffing the first bytes.
func (h *BaseHandler) readUpload(c *gin.Context) (attachment.File, bool) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Upload exceeds the size limit")
			return attachment.File{}, false
		}
		h.BadRequest(c, "Missing file field")
		return attachment.File{}, false
	}
	if header.Size > attachment.MaxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Upload exceeds the size limit")
		return attachment.File{}, false
	}

	f, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable upload")
		return attachment.File{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, attachment.MaxUploadSize+1))
	if err != nil {
		h.BadRequest(c, "Unreadable upload")
		return attachment.File{}, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return attachment.File{Filename: header.Filename, ContentType: contentType, Data: data}, true
}

func pageOrDefault(page, pageSize int) (int, int) {
	req := dto.ListRequest{Page: page, PageSize: pageSize}
	req.Normalize()
	return req.Page, req.PageSize
}
