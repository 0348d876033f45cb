package report

import (
	"os"
	"path/filepath"
	"strings"
)

// Publisher stores a rendered document and returns where the client can
// fetch it: a public URL when the server has one, a local path otherwise.
type Publisher interface {
	Publish(data []byte, filename string) (string, error)
}

type LocalPublisher struct {
	dir     string
	baseURL string
}

func NewLocalPublisher(dir, baseURL string) *LocalPublisher {
	return &LocalPublisher{dir: dir, baseURL: baseURL}
}

func (p *LocalPublisher) Publish(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if p.baseURL != "" {
		return strings.TrimRight(p.baseURL, "/") + "/" + filename, nil
	}
	return path, nil
}
