package server

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/newnow-platform/newnow-web/identity"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

// pageContext carries the fields every page shares (navbar state).
type pageContext struct {
	AppName string
	User    *identity.Identity
}

func (s *Server) pageContext() pageContext {
	return pageContext{
		AppName: s.config.GetAppName(),
		User:    s.sessions.CurrentUser(),
	}
}
