package testutil

// Standard fixture project IDs.
const (
	DemoProjectID = "demo"
	DocsProjectID = "docs"
)

// WithStandardProjects adds two projects: a small Go/TypeScript app and a docs tree.
func (b *Builder) WithStandardProjects() *Builder {
	return b.
		WithProject(DemoProjectID,
			Name("Demo App"), RootDir("/src/demo"),
			File("main.go", "package main\n\nfunc main() {}\n"),
			File("README.md", "# Demo\n"),
			File("web/app.ts", "export const app = 1;\n"),
		).
		WithProject(DocsProjectID,
			Name("Docs"),
			File("index.md", "# Docs\n"),
			File("guide/setup.md", "## Setup\n"),
		)
}
