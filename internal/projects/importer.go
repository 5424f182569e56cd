package projects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/projects/domain"
)

// MaxImportFileSize is the largest file Import reads.
const MaxImportFileSize = 1 << 20

// ErrProjectExists is returned when importing under a name already in use.
var ErrProjectExists = errors.New("project already exists")

// Importer creates projects from directory trees.
type Importer struct {
	projects domain.ProjectRepository
	files    domain.FileRepository
	newID    func() string
}

// NewImporter creates an Importer that assigns uuid IDs.
func NewImporter(projects domain.ProjectRepository, files domain.FileRepository) *Importer {
	return &Importer{projects: projects, files: files, newID: uuid.NewString}
}

// ImportResult reports what Import stored.
type ImportResult struct {
	Project *domain.Project
	Files   int
	Skipped int
}

// Import stores every text file under dir as a new project named name
// (the directory's base name when empty). Hidden entries, binary files and
// files over MaxImportFileSize are skipped.
func (im *Importer) Import(ctx context.Context, dir, name string) (ImportResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return ImportResult{}, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if name == "" {
		name = filepath.Base(root)
	}

	if _, err := im.projects.FindByName(ctx, name); err == nil {
		return ImportResult{}, fmt.Errorf("%w: %s", ErrProjectExists, name)
	} else if !errors.Is(err, domain.ErrProjectNotFound) {
		return ImportResult{}, err
	}

	project := domain.NewProject(im.newID(), name, root)
	var files []domain.File
	skipped := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > MaxImportFileSize {
			skipped++
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if bytes.IndexByte(content, 0) >= 0 {
			skipped++
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, domain.File{
			ID:        im.newID(),
			ProjectID: project.ID(),
			Path:      filepath.ToSlash(rel),
			Content:   string(content),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("walk %s: %w", root, err)
	}

	if err := im.projects.Save(ctx, project); err != nil {
		return ImportResult{}, err
	}
	if err := im.files.SaveAll(ctx, files); err != nil {
		_ = im.projects.Delete(ctx, project.ID())
		return ImportResult{}, err
	}

	log.Info(log.CatDB, "project imported", "project", project.ID(), "name", name, "files", len(files), "skipped", skipped)
	return ImportResult{Project: project, Files: len(files), Skipped: skipped}, nil
}
