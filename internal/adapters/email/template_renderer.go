package email

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"eventmaster/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateComposer implements domain.MailComposer using embedded plain text templates.
// Each message has a <name>_subject.txt and a <name>.txt file.
type templateComposer struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewTemplateComposer returns a MailComposer backed by the embedded templates folder.
func NewTemplateComposer() domain.MailComposer {
	return &templateComposer{cache: make(map[string]*template.Template)}
}

// Compose executes the named message (e.g. "guest_qr") with data.
func (c *templateComposer) Compose(templateName string, data any) (subject, body string, err error) {
	subject, err = c.renderFile(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	body, err = c.renderFile(templateName+".txt", data)
	if err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(subject), strings.TrimRight(body, "\n"), nil
}

func (c *templateComposer) renderFile(name string, data any) (string, error) {
	t, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *templateComposer) lookup(name string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.cache[name]; ok {
		return t, nil
	}
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, err
	}
	c.cache[name] = t
	return t, nil
}
