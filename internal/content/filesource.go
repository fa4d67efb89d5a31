package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSource is a Fetcher backed by a directory of plain-text pages:
//
//	<root>/<sourceID>/<group>/<locator>.md
//	<root>/<sourceID>/<locator>.md
//
// Group selectors enumerate subdirectories; individual locators resolve
// against the source directory and every group. Pages are split into
// sections on markdown "## " headings. Useful for local corpora and
// development; live wiki acquisition plugs in behind the same
// interface.
type FileSource struct {
	root string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{root: dir}
}

// PagesInGroup lists the page locators inside one group directory in
// lexical order.
func (f *FileSource) PagesInGroup(_ context.Context, sourceID, groupSelector string) ([]string, error) {
	dir := filepath.Join(f.root, sourceID, groupSelector)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing group %q: %w", groupSelector, err)
	}

	var locators []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".md" && ext != ".txt" {
			continue
		}
		locators = append(locators, strings.TrimSuffix(name, ext))
	}
	sort.Strings(locators)
	return locators, nil
}

// FetchContent reads one page and splits it into sections.
func (f *FileSource) FetchContent(_ context.Context, sourceID, locator string) ([]Section, error) {
	path, err := f.findPage(sourceID, locator)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page %q: %w", locator, err)
	}
	return SplitSections(string(raw)), nil
}

func (f *FileSource) findPage(sourceID, locator string) (string, error) {
	sourceDir := filepath.Join(f.root, sourceID)
	candidates := []string{
		filepath.Join(sourceDir, locator+".md"),
		filepath.Join(sourceDir, locator+".txt"),
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return "", fmt.Errorf("listing source %q: %w", sourceID, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidates = append(candidates,
			filepath.Join(sourceDir, e.Name(), locator+".md"),
			filepath.Join(sourceDir, e.Name(), locator+".txt"))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("page %q not found under source %q", locator, sourceID)
}

// SplitSections breaks page text into sections on "## " headings. Text
// before the first heading becomes an untitled lead section.
func SplitSections(text string) []Section {
	var sections []Section
	title := ""
	var body strings.Builder

	flush := func() {
		t := strings.TrimSpace(body.String())
		if title == "" && t == "" {
			body.Reset()
			return
		}
		sections = append(sections, Section{
			Title:     title,
			Text:      t,
			WordCount: len(strings.Fields(t)),
		})
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			title = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()
	return sections
}
