package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flybeeper/track-analyzer/internal/ingest"
	"github.com/flybeeper/track-analyzer/internal/metrics"
	"github.com/flybeeper/track-analyzer/pkg/pool"
)

// uploadError ошибка проверки загрузки с HTTP статусом и кодом ответа
type uploadError struct {
	status  int
	code    string
	message string
}

func (e *uploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// upload загруженный файл трека в буфере из пула
type upload struct {
	name   string
	format ingest.Format
	buf    *bytes.Buffer
}

func (u upload) body() io.Reader {
	return bytes.NewReader(u.buf.Bytes())
}

func (u upload) release() {
	pool.Global.PutBuffer(u.buf)
}

func releaseAll(uploads []upload) {
	for _, u := range uploads {
		u.release()
	}
}

// readUploads читает трек из multipart поля file или из тела запроса.
// multi разрешает несколько файлов и требует multipart.
func (h *RESTHandler) readUploads(c *gin.Context, multi bool) ([]upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var forced ingest.Format
	if q := c.Query("format"); q != "" {
		f, err := ingest.ParseFormat(q)
		if err != nil {
			return nil, &uploadError{http.StatusUnsupportedMediaType, "unsupported_format", "Format must be gpx or geojson"}
		}
		forced = f
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return h.readMultipart(c, forced, multi)
	}

	if multi {
		return nil, &uploadError{http.StatusBadRequest, "multipart_required", "Batch upload requires multipart/form-data"}
	}

	format := forced
	if format == ingest.FormatUnknown {
		format = ingest.DetectFormat("", c.GetHeader("Content-Type"))
	}
	if format == ingest.FormatUnknown {
		return nil, &uploadError{http.StatusUnsupportedMediaType, "unsupported_format", "Cannot detect track format, pass ?format=gpx|geojson"}
	}

	buf := pool.Global.GetBuffer()
	if _, err := buf.ReadFrom(c.Request.Body); err != nil {
		pool.Global.PutBuffer(buf)
		return nil, bodyError(err)
	}
	if buf.Len() == 0 {
		pool.Global.PutBuffer(buf)
		return nil, &uploadError{http.StatusBadRequest, "empty_body", "Request body is empty"}
	}
	metrics.UploadSizeBytes.Observe(float64(buf.Len()))

	name := c.DefaultQuery("name", "upload")
	return []upload{{name: name, format: format, buf: buf}}, nil
}

func (h *RESTHandler) readMultipart(c *gin.Context, forced ingest.Format, multi bool) ([]upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, bodyError(err)
	}

	files := form.File["file"]
	if len(files) == 0 {
		return nil, &uploadError{http.StatusBadRequest, "missing_file", "Multipart field 'file' is required"}
	}
	if !multi {
		files = files[:1]
	}

	uploads := make([]upload, 0, len(files))
	for _, fh := range files {
		u, err := readFormFile(fh, forced)
		if err != nil {
			releaseAll(uploads)
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func readFormFile(fh *multipart.FileHeader, forced ingest.Format) (upload, error) {
	format := forced
	if format == ingest.FormatUnknown {
		format = ingest.DetectFormat(fh.Filename, fh.Header.Get("Content-Type"))
	}
	if format == ingest.FormatUnknown {
		return upload{}, &uploadError{http.StatusUnsupportedMediaType, "unsupported_format",
			fmt.Sprintf("Cannot detect format of %q, expected .gpx or .geojson", fh.Filename)}
	}

	f, err := fh.Open()
	if err != nil {
		return upload{}, err
	}
	defer f.Close()

	buf := pool.Global.GetBuffer()
	if _, err := buf.ReadFrom(f); err != nil {
		pool.Global.PutBuffer(buf)
		return upload{}, err
	}
	metrics.UploadSizeBytes.Observe(float64(buf.Len()))

	name := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	return upload{name: name, format: format, buf: buf}, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &uploadError{http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Sprintf("Upload exceeds %d bytes", maxErr.Limit)}
	}
	return &uploadError{http.StatusBadRequest, "invalid_upload", err.Error()}
}
