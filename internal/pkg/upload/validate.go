// Package upload validates uploaded files before they reach storage.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/slug"
)

// SniffLen is how many leading bytes Inspect needs.
const SniffLen = 512

var (
	ErrEmpty       = errors.New("the file is empty")
	ErrTooLarge    = errors.New("the file exceeds the upload limit")
	ErrUnsupported = errors.New("this file type is not supported")
	ErrScriptable  = errors.New("HTML, SVG and XML files are not allowed")
)

var allowedExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".rtf":  "application/rtf",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	// SVG is excluded: it can carry script
}

// Result describes an accepted file.
type Result struct {
	MimeType string
	AppType  string
}

// Inspect checks size, extension and the first bytes (head) of an upload.
// Images are classified as models.AppTypeImage, everything else as models.AppTypeFile.
func Inspect(filename string, size, maxBytes int64, head []byte) (*Result, error) {
	if size <= 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && size > maxBytes {
		return nil, fmt.Errorf("%w (%d MB)", ErrTooLarge, maxBytes/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	declared, ok := allowedExt[ext]
	if !ok {
		return nil, ErrUnsupported
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return nil, ErrScriptable
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return nil, ErrScriptable
	}

	mimeType := declared
	if strings.HasPrefix(declared, "image/") {
		if !strings.HasPrefix(detected, "image/") {
			return nil, ErrUnsupported
		}
		mimeType = detected
	}

	appType := models.AppTypeFile
	if strings.HasPrefix(mimeType, "image/") {
		appType = models.AppTypeImage
	}
	return &Result{MimeType: mimeType, AppType: appType}, nil
}

// StoredName builds the unique on-disk name "<unix>-<slug><ext>" for an upload.
func StoredName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.MakeOr(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)), "file")
	return strconv.FormatInt(now.Unix(), 10) + "-" + base + ext
}

// ContentType returns a MIME type for name, falling back to octet-stream.
func ContentType(name string) string {
	if t, ok := allowedExt[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
