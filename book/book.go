package book

/* Sem tags de transporte: representa um livro em relação ao negócio.
 * The web layer and each store adapter keep their own representation.
 */

// Book is a titled record with an append-only list of comments
type Book struct {
	ID       string
	Title    string `validate:"required"`
	Comments []string
}

// CommentCount returns how many comments were appended to the book
func (b Book) CommentCount() int {
	return len(b.Comments)
}

// New returns a book ready to be inserted: no ID and an empty comment sequence
func New(title string) Book {
	return Book{
		Title:    title,
		Comments: []string{},
	}
}
