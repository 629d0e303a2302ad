package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/api/metrics"
	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

// multipartOverhead is allowed on top of maxBytes for boundaries and part headers.
const multipartOverhead = 1 << 20

// FileHandler proxies uploads and downloads to the Blob Service. Neither
// route is authenticated.
type FileHandler struct {
	blobs    ports.BlobGateway
	maxBytes int64
}

func NewFileHandler(blobs ports.BlobGateway, maxBytes int64) *FileHandler {
	return &FileHandler{blobs: blobs, maxBytes: maxBytes}
}

// Upload stores the multipart field "file" and returns its key.
//
// @Summary      Upload a file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200   {object}  SuccessResponse{data=domain.UploadResult}
// @Failure      400   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Router       /api/upload [post]
func (h *FileHandler) Upload(c echo.Context) error {
	res, err := h.upload(c)
	metrics.UploadsTotal.WithLabelValues(uploadResult(err)).Inc()
	if err != nil {
		return err
	}
	metrics.UploadBytes.Observe(float64(res.Size))
	return ok(c, res)
}

func (h *FileHandler) upload(c echo.Context) (*domain.UploadResult, error) {
	req := c.Request()
	if h.maxBytes > 0 {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		return nil, domain.ErrNoFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, domain.Storage("open upload", err)
	}
	defer f.Close()

	return h.blobs.Upload(req.Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), fh.Size, f)
}

// Download streams the blob stored under the key that follows /api/file/.
//
// @Summary      Download a file
// @Tags         files
// @Produce      octet-stream
// @Param        key  path  string  true  "Blob key"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Router       /api/file/{key} [get]
func (h *FileHandler) Download(c echo.Context) error {
	// Echo matches on RawPath when the client used a non-canonical
	// encoding, and the wildcard value is then still escaped.
	key := c.Param("*")
	if c.Request().URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
	}

	blob, err := h.blobs.Download(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.DownloadsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	defer blob.Body.Close()

	metrics.DownloadsTotal.WithLabelValues("success").Inc()
	if blob.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(blob.Size, 10))
	}
	return c.Stream(http.StatusOK, blob.ContentType, blob.Body)
}

func uploadResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNoFile):
		return "no_file"
	case errors.Is(err, domain.ErrFileTooLarge):
		return "too_large"
	default:
		return "error"
	}
}
