package mail

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

// Template names.
const (
	TemplateContactNotification    = "contact_notification"
	TemplateSubmissionNotification = "submission_notification"
	TemplateSubmissionRejected     = "submission_rejected"
	TemplateUserWelcome            = "user_welcome"

	layoutName = "layouts/mail"
)

// Renderer turns a template name and its data into an HTML body.
type Renderer struct {
	engine *html.Engine
}

func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// Render executes the named template inside the mail layout.
func (r *Renderer) Render(name string, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, data, layoutName); err != nil {
		return "", fmt.Errorf("render mail %s: %w", name, err)
	}
	return buf.String(), nil
}
