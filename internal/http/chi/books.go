package chi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/personal-library/book"
)

// Fixed texts of the domain outcomes. They are sent with status 200.
const (
	MsgMissingTitle    = "missing required field title"
	MsgNoBook          = "no book exists"
	MsgMissingComment  = "missing required field comment"
	MsgDeleted         = "delete successful"
	MsgCompleteDeleted = "complete delete successful"

	msgInvalidBody = "invalid request body"
)

const maxFormMemory = 1 << 20

/*
* Representa o livro na camada web, por isso ele tem as tags json.
* Os campos vêm de JSON ou de formulário
 */
type bookRequest struct {
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

/*
* Representa o livro na camada web
 */
type bookSummary struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	CommentCount int    `json:"commentcount"`
}

type bookCreated struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

type bookDetail struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Comments []string `json:"comments"`
}

func toDetail(b book.Book) bookDetail {
	comments := b.Comments
	if comments == nil {
		comments = []string{}
	}
	return bookDetail{ID: b.ID, Title: b.Title, Comments: comments}
}

var errInvalidBody = errors.New(msgInvalidBody)

// decodeRequest reads a JSON or form-encoded body. An empty body leaves every field absent.
func decodeRequest(r *http.Request) (bookRequest, error) {
	var br bookRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return br, errInvalidBody
		}
		br.Title, br.Comment = r.PostForm.Get("title"), r.PostForm.Get("comment")
		return br, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return br, errInvalidBody
		}
		br.Title, br.Comment = r.PostForm.Get("title"), r.PostForm.Get("comment")
		return br, nil
	}
	if r.Body == nil {
		return br, nil
	}
	err := json.NewDecoder(r.Body).Decode(&br)
	if err != nil && !errors.Is(err, io.EOF) {
		return bookRequest{}, errInvalidBody
	}
	return br, nil
}

func writeText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l := httplog.LogEntry(r.Context())
		l.Error().Err(err).Msg("encoding response")
	}
}

// storeFailure answers 500 for anything the domain contract does not cover
func storeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	l := httplog.LogEntry(r.Context())
	l.Error().Err(err).Str("operation", op).Msg("book operation failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func getBooks(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := bookService.List(r.Context())
		if err != nil {
			rec.RecordOperation(r.Context(), "list", outcomeError)
			storeFailure(w, r, "list", err)
			return
		}
		result := make([]bookSummary, 0, len(all))
		for _, b := range all {
			result = append(result, bookSummary{
				ID:           b.ID,
				Title:        b.Title,
				CommentCount: b.CommentCount(),
			})
		}
		rec.RecordOperation(r.Context(), "list", outcomeOK)
		writeJSON(w, r, result)
	})
}

func postBooks(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		br, err := decodeRequest(r)
		if err != nil {
			rec.RecordOperation(r.Context(), "create", outcomeBadRequest)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bookService.Create(r.Context(), br.Title)
		switch {
		case errors.Is(err, book.ErrMissingTitle):
			rec.RecordOperation(r.Context(), "create", outcomeMissingTitle)
			writeText(w, MsgMissingTitle)
			return
		case err != nil:
			rec.RecordOperation(r.Context(), "create", outcomeError)
			storeFailure(w, r, "create", err)
			return
		}
		rec.RecordOperation(r.Context(), "create", outcomeOK)
		writeJSON(w, r, bookCreated{ID: b.ID, Title: b.Title})
	})
}

func deleteBooks(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := bookService.DeleteAll(r.Context())
		if err != nil {
			rec.RecordOperation(r.Context(), "delete_all", outcomeError)
			storeFailure(w, r, "delete_all", err)
			return
		}
		l := httplog.LogEntry(r.Context())
		l.Info().Int64("removed", n).Msg("library cleared")
		rec.RecordOperation(r.Context(), "delete_all", outcomeOK)
		writeText(w, MsgCompleteDeleted)
	})
}

func getBook(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := bookService.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case book.IsNotFound(err):
			rec.RecordOperation(r.Context(), "get", outcomeNotFound)
			writeText(w, MsgNoBook)
			return
		case err != nil:
			rec.RecordOperation(r.Context(), "get", outcomeError)
			storeFailure(w, r, "get", err)
			return
		}
		rec.RecordOperation(r.Context(), "get", outcomeOK)
		writeJSON(w, r, toDetail(b))
	})
}

func postComment(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		br, err := decodeRequest(r)
		if err != nil {
			rec.RecordOperation(r.Context(), "comment", outcomeBadRequest)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bookService.AddComment(r.Context(), chi.URLParam(r, "id"), br.Comment)
		switch {
		case errors.Is(err, book.ErrMissingComment):
			rec.RecordOperation(r.Context(), "comment", outcomeMissingComment)
			writeText(w, MsgMissingComment)
			return
		case book.IsNotFound(err):
			rec.RecordOperation(r.Context(), "comment", outcomeNotFound)
			writeText(w, MsgNoBook)
			return
		case err != nil:
			rec.RecordOperation(r.Context(), "comment", outcomeError)
			storeFailure(w, r, "comment", err)
			return
		}
		rec.RecordOperation(r.Context(), "comment", outcomeOK)
		writeJSON(w, r, toDetail(b))
	})
}

func deleteBook(bookService book.UseCase, rec OperationRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := bookService.Delete(r.Context(), chi.URLParam(r, "id"))
		switch {
		case book.IsNotFound(err):
			rec.RecordOperation(r.Context(), "delete", outcomeNotFound)
			writeText(w, MsgNoBook)
			return
		case err != nil:
			rec.RecordOperation(r.Context(), "delete", outcomeError)
			storeFailure(w, r, "delete", err)
			return
		}
		rec.RecordOperation(r.Context(), "delete", outcomeOK)
		writeText(w, MsgDeleted)
	})
}
