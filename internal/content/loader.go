// Package content loads skill definition files into the registry and
// validates them.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/registry"
)

// LoadReport summarizes one reload. Messages about a file are prefixed with its name.
type LoadReport struct {
	Loaded   int
	Skipped  int
	Warnings []string
	Errors   []string
	Took     time.Duration
}

func (r *LoadReport) addError(file, msg string) {
	r.Errors = append(r.Errors, prefix(file, msg))
}

func (r *LoadReport) addWarning(file, msg string) {
	r.Warnings = append(r.Warnings, prefix(file, msg))
}

func prefix(file, msg string) string {
	if file == "" {
		return msg
	}
	return file + ": " + msg
}

// Loader reads skill files from a directory and publishes them to a catalog.
type Loader struct {
	catalog *registry.Catalog
	vocab   host.Vocabulary
}

// NewLoader creates a loader that publishes into catalog and resolves names against vocab.
func NewLoader(catalog *registry.Catalog, vocab host.Vocabulary) *Loader {
	return &Loader{catalog: catalog, vocab: vocab}
}

// Reload replaces the published skills with the contents of dir.
//
// Files are processed in lexicographic order. A file that fails to parse or
// validate is skipped and loading continues. A valid skill is registered
// immediately, so a later file with the same id replaces an earlier one.
// The trigger index is rebuilt once at the end and the new snapshot is
// published atomically. If dir cannot be created or listed, the previous
// snapshot stays published.
func (l *Loader) Reload(dir string) *LoadReport {
	start := time.Now()
	report := &LoadReport{}

	if err := os.MkdirAll(dir, 0755); err != nil {
		report.addError("", fmt.Sprintf("could not create folder: %s: %v", dir, err))
		logger.Warning("Skill reload aborted", "dir", dir, "error", err)
		return report
	}

	files, err := listDefinitionFiles(dir)
	if err != nil {
		report.addError("", fmt.Sprintf("could not list folder: %s: %v", dir, err))
		logger.Warning("Skill reload aborted", "dir", dir, "error", err)
		return report
	}

	reg := registry.New()
	for _, name := range files {
		l.loadFile(reg, dir, name, report)
	}

	snap := l.catalog.Publish(reg)
	report.Took = time.Since(start)

	for _, e := range report.Errors {
		logger.Warning("Skill load error", "error", e)
	}
	logger.Always("Skills reloaded",
		"dir", dir,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
		"warnings", len(report.Warnings),
		"generation", snap.Generation,
		"took", report.Took)

	return report
}

func (l *Loader) loadFile(reg *registry.Registry, dir, name string, report *LoadReport) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		report.addError(name, err.Error())
		report.Skipped++
		return
	}

	doc, err := parseDocument(data)
	if err != nil {
		report.addError(name, err.Error())
		report.Skipped++
		return
	}
	if doc == nil {
		report.addError(name, "id: missing")
		report.Skipped++
		return
	}

	s := buildSkill(doc, stem(name))
	result := Validate(s, l.vocab)
	for _, w := range result.Warnings {
		report.addWarning(name, w)
	}
	if !result.OK() {
		for _, e := range result.Errors {
			report.addError(name, e)
		}
		report.Skipped++
		return
	}

	if reg.Register(s) {
		logger.Debug("Skill definition replaced by later file", "skill", s.ID, "file", name)
	}
	report.Loaded++
}

// listDefinitionFiles returns the .yml/.yaml files in dir sorted by name,
// ignoring directories and files starting with "_".
func listDefinitionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "_") || !isDefinitionFile(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func isDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
