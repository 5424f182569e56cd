package domain

import (
	"path/filepath"
	"strings"
)

// FileID uniquely identifies a file within a project.
type FileID string

// FileDescriptor describes a project file as carried by the file tree and drag payloads.
type FileDescriptor struct {
	ID       FileID
	Filename string
	Content  string
}

// ContentSink receives every content change made through a Model.
// The file data service implements it to keep its working copy current.
type ContentSink interface {
	WriteContent(id FileID, content string)
}

// Model is the single editable-content object for one file of a project.
// Models are created and owned by the model registry; panes and bindings
// refer to them by FileID only.
type Model struct {
	fileID   FileID
	filename string
	language string
	content  string
	version  int
	sink     ContentSink
}

// NewModel creates a Model. A nil sink is allowed.
func NewModel(id FileID, filename, language, content string, sink ContentSink) *Model {
	return &Model{
		fileID:   id,
		filename: filename,
		language: language,
		content:  content,
		sink:     sink,
	}
}

// FileID returns the file identity.
func (m *Model) FileID() FileID {
	return m.fileID
}

// Filename returns the display filename.
func (m *Model) Filename() string {
	return m.filename
}

// Language returns the language tag.
func (m *Model) Language() string {
	return m.language
}

// Content returns the current buffer.
func (m *Model) Content() string {
	return m.content
}

// Version is incremented on every content change.
func (m *Model) Version() int {
	return m.version
}

// SetContent replaces the buffer and forwards the change to the sink.
// Setting identical content is a no-op.
func (m *Model) SetContent(content string) {
	if content == m.content {
		return
	}
	m.content = content
	m.version++
	if m.sink != nil {
		m.sink.WriteContent(m.fileID, content)
	}
}

// Refresh replaces the buffer with content loaded from storage. Unlike
// SetContent it does not write to the sink. It reports whether the buffer changed.
func (m *Model) Refresh(content string) bool {
	if content == m.content {
		return false
	}
	m.content = content
	m.version++
	return true
}

// languageByExt maps file extensions to language tags.
var languageByExt = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".json": "json",
	".md":   "markdown",
	".css":  "css",
	".html": "html",
	".py":   "python",
	".rs":   "rust",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".sh":   "shell",
	".sql":  "sql",
}

// LanguageFor derives a language tag from a filename.
// Unknown extensions map to "plaintext".
func LanguageFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "plaintext"
}
