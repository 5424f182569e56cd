package testutil

import "time"

// fileData holds one file to be inserted.
type fileData struct {
	id      string
	path    string
	content string
}

// projectData holds all data for a project to be inserted.
type projectData struct {
	id        string
	name      string
	rootDir   string
	files     []fileData
	updatedAt time.Time
}

func defaultProject(id string) projectData {
	return projectData{
		id:        id,
		name:      id,
		updatedAt: time.Now(),
	}
}

// ProjectOption configures a project for the builder.
type ProjectOption func(*projectData)

// Name sets the project display name. Defaults to the ID.
func Name(name string) ProjectOption {
	return func(p *projectData) { p.name = name }
}

// RootDir sets the directory the project was imported from.
func RootDir(dir string) ProjectOption {
	return func(p *projectData) { p.rootDir = dir }
}

// File adds a file whose ID is "<project>:<path>".
func File(path, content string) ProjectOption {
	return func(p *projectData) {
		p.files = append(p.files, fileData{id: p.id + ":" + path, path: path, content: content})
	}
}

// FileWithID adds a file with an explicit ID.
func FileWithID(id, path, content string) ProjectOption {
	return func(p *projectData) {
		p.files = append(p.files, fileData{id: id, path: path, content: content})
	}
}

// UpdatedAt sets the modification time of the project's files.
func UpdatedAt(t time.Time) ProjectOption {
	return func(p *projectData) { p.updatedAt = t }
}
