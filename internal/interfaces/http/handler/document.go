package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	docapp "github.com/trackle/backend/internal/application/document"
)

// DocumentHandler handles document endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *docapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *docapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.GET("", h.List)
		documents.POST("", h.Create)
		documents.GET("/:id", h.Get)
		documents.PUT("/:id", h.Update)
		documents.DELETE("/:id", h.Delete)
		documents.PUT("/:id/share", h.Share)
		documents.DELETE("/:id/share", h.Unshare)
		documents.GET("/:id/download", h.Download)
		documents.GET("/stats/categories", h.CategoryStats)
	}
}

// List returns the page of documents visible to the requester
func (h *DocumentHandler) List(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input docapp.ListDocumentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.documentService.List(c.Request.Context(), req, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Documents, result.Count, result.Total, result.Page, result.Limit)
}

// Create uploads a document with its metadata
func (h *DocumentHandler) Create(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input docapp.CreateDocumentRequest
	if err := c.ShouldBind(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "File is required")
		return
	}

	upload, closeFn, err := openUpload(fileHeader)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer closeFn()

	doc, err := h.documentService.Create(c.Request.Context(), req, input, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Get returns one document
func (h *DocumentHandler) Get(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), req, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Update changes document metadata and optionally replaces its file
func (h *DocumentHandler) Update(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var input docapp.UpdateDocumentRequest
	if err := c.ShouldBind(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	var upload *docapp.FileUpload
	if fileHeader, err := c.FormFile("file"); err == nil {
		u, closeFn, err := openUpload(fileHeader)
		if err != nil {
			h.BadRequest(c, "Failed to read uploaded file")
			return
		}
		defer closeFn()
		upload = &u
	}

	doc, err := h.documentService.Update(c.Request.Context(), req, id, input, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete soft-deletes a document
func (h *DocumentHandler) Delete(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), req, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Share grants read access to the listed users
func (h *DocumentHandler) Share(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var input docapp.ShareDocumentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	doc, err := h.documentService.Share(c.Request.Context(), req, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Unshare revokes read access for the listed users
func (h *DocumentHandler) Unshare(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var input docapp.ShareDocumentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	doc, err := h.documentService.Unshare(c.Request.Context(), req, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// CategoryStats returns per-category counts of visible documents
func (h *DocumentHandler) CategoryStats(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	counts, err := h.documentService.CategoryCounts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Download streams the document content to a requester with read access
func (h *DocumentHandler) Download(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	result, err := h.documentService.Download(c.Request.Context(), req, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	reader, err := h.documentService.OpenFile(c.Request.Context(), result.FilePath)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	contentType := result.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing useful to send.
		_ = c.Error(err)
	}
}

func openUpload(fileHeader *multipart.FileHeader) (docapp.FileUpload, func(), error) {
	file, err := fileHeader.Open()
	if err != nil {
		return docapp.FileUpload{}, nil, err
	}
	upload := docapp.FileUpload{
		Reader:   file,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
	}
	return upload, func() { file.Close() }, nil
}
