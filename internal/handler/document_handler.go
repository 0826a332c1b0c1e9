package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/model"
	"github.com/nexushr/nexushr/internal/pkg/response"
	"github.com/nexushr/nexushr/internal/service"
)

type DocumentHandler struct {
	ingest    *service.IngestService
	documents *service.DocumentService
}

func NewDocumentHandler(ingest *service.IngestService, documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, documents: documents}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "file field is required")
		return
	}
	result, err := h.ingestOne(c, fileHeader)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type multiUploadItem struct {
	Filename string              `json:"filename"`
	Result   *model.IngestResult `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// UploadMultiple ingests each file independently; one bad file does
// not abort the rest.
func (h *DocumentHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "multipart form is required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "invalid_request", "files field is required")
		return
	}
	items := make([]multiUploadItem, 0, len(files))
	for _, fileHeader := range files {
		item := multiUploadItem{Filename: fileHeader.Filename}
		result, err := h.ingestOne(c, fileHeader)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		items = append(items, item)
	}
	response.Success(c, gin.H{"results": items})
}

func (h *DocumentHandler) ingestOne(c *gin.Context, fileHeader *multipart.FileHeader) (*model.IngestResult, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	ctx := service.WithUsername(c.Request.Context(), currentUsername(c))
	return h.ingest.Ingest(ctx, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if docs == nil {
		docs = []*model.UploadedDocument{}
	}
	response.Success(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.documents.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *DocumentHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.documents.DeleteAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"chunks_deleted": deleted})
}
