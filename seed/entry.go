package seed

import "fmt"

/* Entry is one book to seed, with the comments it starts with
 * Comments are appended in file order
 */
type Entry struct {
	Title    string
	Comments []string
}

// Validate checks that the entry can be created as-is
func (e Entry) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	for i, c := range e.Comments {
		if c == "" {
			return fmt.Errorf("comment %d of %q cannot be empty", i, e.Title)
		}
	}
	return nil
}
