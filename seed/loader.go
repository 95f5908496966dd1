package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader reads a seed file of books
 * Entries keep the file order
 */

// File represents the structure of a seed YAML file
type File struct {
	Books []EntryConfig `yaml:"books"`
}

// EntryConfig represents a single book in the YAML file
type EntryConfig struct {
	Title    string   `yaml:"title"`
	Comments []string `yaml:"comments"`
}

// Loader holds the loaded entries
type Loader struct {
	entries []Entry
	titles  map[string]struct{}
}

func NewLoader() *Loader {
	return &Loader{
		titles: make(map[string]struct{}),
	}
}

// Load reads and parses the seed file. Titles must be unique within the file.
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	for _, ec := range file.Books {
		e := Entry{
			Title:    ec.Title,
			Comments: ec.Comments,
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("validating entry: %w", err)
		}
		if _, dup := l.titles[e.Title]; dup {
			return fmt.Errorf("validating entry: duplicate title %q", e.Title)
		}
		l.titles[e.Title] = struct{}{}
		l.entries = append(l.entries, e)
	}

	return nil
}

// Entries returns the loaded entries in file order
func (l *Loader) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Exists checks if a title was loaded
func (l *Loader) Exists(title string) bool {
	_, exists := l.titles[title]
	return exists
}
