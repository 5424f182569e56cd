// Package filedata keeps the working copy of the open project's files.
//
// The Service loads a project's files from storage when a session starts,
// receives every edit made through workspace Models, and flushes dirty files
// back to storage when the session ends with persist=true.
package filedata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/panecode/internal/log"
	projects "github.com/zjrosen/panecode/internal/projects/domain"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// entry is one file of the working copy.
type entry struct {
	file     projects.File
	original string
}

func (e *entry) dirty() bool {
	return e.file.Content != e.original
}

// Service implements domain.FileDataService over a FileRepository.
// It is safe for concurrent use.
type Service struct {
	mu          sync.Mutex
	repo        projects.FileRepository
	projectID   string
	entries     map[domain.FileID]*entry
	recoveryDir string
	now         func() time.Time
}

var _ domain.FileDataService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithRecoveryDir sets where dirty files are written when persisting them on
// clear fails.
func WithRecoveryDir(dir string) Option {
	return func(s *Service) {
		s.recoveryDir = dir
	}
}

// NewService creates a Service with an empty working copy.
func NewService(repo projects.FileRepository, opts ...Option) *Service {
	s := &Service{repo: repo, entries: make(map[domain.FileID]*entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitFileData loads the working copy of projectID, replacing any other.
func (s *Service) InitFileData(ctx context.Context, projectID string) error {
	files, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load files: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projectID != "" && s.projectID != projectID {
		log.Warn(log.CatFileData, "replacing uncleared working copy", "previous", s.projectID, "project", projectID)
	}
	s.projectID = projectID
	s.entries = make(map[domain.FileID]*entry, len(files))
	for _, f := range files {
		s.entries[domain.FileID(f.ID)] = &entry{file: f, original: f.Content}
	}
	log.Info(log.CatFileData, "working copy loaded", "project", projectID, "files", len(files))
	return nil
}

// ClearFileData drops the working copy of projectID. With persist, dirty files
// are written first. If that write fails the dirty files go to a recovery file
// before the copy is dropped; without a recovery dir, or when the recovery
// write fails too, the copy stays loaded so Persist can retry.
// Clearing a project that is not loaded is a no-op.
func (s *Service) ClearFileData(persist bool, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projectID == "" || s.projectID != projectID {
		log.Debug(log.CatFileData, "clear skipped, project not loaded", "project", projectID, "loaded", s.projectID)
		return nil
	}

	var err error
	if persist {
		err = s.persistLocked(context.Background())
	}
	if err != nil {
		path, recErr := s.writeRecoveryLocked()
		if recErr != nil {
			log.WarnErr(log.CatFileData, "working copy kept after failed persist", recErr, "project", projectID)
			return errors.Join(err, recErr)
		}
		log.Warn(log.CatFileData, "unsaved files written to recovery file", "project", projectID, "path", path)
		err = fmt.Errorf("%w (unsaved files recovered to %s)", err, path)
	}
	dropped := len(s.entries)
	s.projectID = ""
	s.entries = make(map[domain.FileID]*entry)
	log.Info(log.CatFileData, "working copy cleared", "project", projectID, "persist", persist, "files", dropped)
	return err
}

// recoveredFile is one dirty file in a recovery file.
type recoveredFile struct {
	ID      string `yaml:"id"`
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// recoveryFile is the YAML document written when persisting fails.
type recoveryFile struct {
	Project string          `yaml:"project"`
	SavedAt time.Time       `yaml:"saved_at"`
	Files   []recoveredFile `yaml:"files"`
}

var errNoRecoveryDir = errors.New("no recovery dir configured")

func (s *Service) writeRecoveryLocked() (string, error) {
	if s.recoveryDir == "" {
		return "", errNoRecoveryDir
	}

	now := s.now()
	doc := recoveryFile{Project: s.projectID, SavedAt: now}
	for _, e := range s.entries {
		if e.dirty() {
			doc.Files = append(doc.Files, recoveredFile{ID: e.file.ID, Path: e.file.Path, Content: e.file.Content})
		}
	}
	slices.SortFunc(doc.Files, func(a, b recoveredFile) int { return strings.Compare(a.Path, b.Path) })

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("encode recovery file: %w", err)
	}
	if err := os.MkdirAll(s.recoveryDir, 0o750); err != nil {
		return "", fmt.Errorf("create recovery dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.yaml", strings.ReplaceAll(s.projectID, string(filepath.Separator), "_"), now.Format("20060102T150405"))
	path := filepath.Join(s.recoveryDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write recovery file: %w", err)
	}
	return path, nil
}

// Lookup returns the working-copy descriptor of id. Filename is the
// project-relative path.
func (s *Service) Lookup(id domain.FileID) (domain.FileDescriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return domain.FileDescriptor{}, false
	}
	return descriptor(e), true
}

// WriteContent records an edit. Writes for unknown files are dropped.
func (s *Service) WriteContent(id domain.FileID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		log.Warn(log.CatFileData, "write for unknown file dropped", "file", id)
		return
	}
	e.file.Content = content
}

// ProjectID returns the loaded project, or "".
func (s *Service) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

// Files returns the working copy ordered by path.
func (s *Service) Files() []domain.FileDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.FileDescriptor, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, descriptor(e))
	}
	slices.SortFunc(out, func(a, b domain.FileDescriptor) int { return strings.Compare(a.Filename, b.Filename) })
	return out
}

// Dirty reports whether id has unsaved edits.
func (s *Service) Dirty(id domain.FileID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return ok && e.dirty()
}

// Persist writes every dirty file to storage in one batch.
func (s *Service) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Service) persistLocked(ctx context.Context) error {
	var batch []projects.File
	for _, e := range s.entries {
		if e.dirty() {
			batch = append(batch, e.file)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	if err := s.repo.SaveAll(ctx, batch); err != nil {
		return fmt.Errorf("persist %d files: %w", len(batch), err)
	}
	for _, f := range batch {
		s.entries[domain.FileID(f.ID)].original = f.Content
	}
	log.Info(log.CatFileData, "working copy persisted", "project", s.projectID, "files", len(batch))
	return nil
}

// Reload merges storage changes into the working copy: new files are added,
// clean files take the stored content, dirty files keep their edits.
// It returns the number of files added or updated. Live Models of updated
// files still hold the old content until the workspace refreshes them.
func (s *Service) Reload(ctx context.Context) (int, error) {
	projectID := s.ProjectID()
	if projectID == "" {
		return 0, nil
	}
	files, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("reload files: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projectID != projectID {
		return 0, nil
	}

	changed := 0
	for _, f := range files {
		id := domain.FileID(f.ID)
		e, ok := s.entries[id]
		switch {
		case !ok:
			s.entries[id] = &entry{file: f, original: f.Content}
			changed++
		case !e.dirty() && e.original != f.Content:
			e.file = f
			e.original = f.Content
			changed++
		}
	}
	if changed > 0 {
		log.Debug(log.CatFileData, "working copy reloaded", "project", projectID, "changed", changed)
	}
	return changed, nil
}

func descriptor(e *entry) domain.FileDescriptor {
	return domain.FileDescriptor{
		ID:       domain.FileID(e.file.ID),
		Filename: e.file.Path,
		Content:  e.file.Content,
	}
}
