package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"esekoir/pkg/errors"
)

const maxUploadBytes = 5 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type upload struct {
	file        multipart.File
	contentType string
	filename    string
}

func (u *upload) Close() error {
	if u == nil {
		return nil
	}
	return u.file.Close()
}

// reader is nil-safe so optional uploads can be passed straight through.
func (u *upload) reader() io.Reader {
	if u == nil {
		return nil
	}
	return u.file
}

// formFile opens the multipart file under field. With required false a
// missing field yields (nil, nil).
func formFile(c echo.Context, field string, required bool) (*upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile && !required {
			return nil, nil
		}
		return nil, errors.BadRequest(field+" file is required", err)
	}
	if header.Size > maxUploadBytes {
		return nil, errors.BadRequest(field+" must be at most 5 MB", nil)
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.BadRequest("Failed to read uploaded file", err)
	}

	contentType := sniffContentType(file)
	if !allowedUploadTypes[contentType] {
		file.Close()
		return nil, errors.BadRequest("Unsupported file type "+contentType, nil)
	}

	return &upload{file: file, contentType: contentType, filename: header.Filename}, nil
}

// sniffContentType reads the first 512 bytes and rewinds.
func sniffContentType(file multipart.File) string {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	_, _ = file.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
