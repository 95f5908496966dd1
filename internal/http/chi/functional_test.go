package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/marcelsud/personal-library/book"
	"github.com/marcelsud/personal-library/book/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibrary(t *testing.T) http.Handler {
	t.Helper()
	return Handlers(context.Background(), book.NewService(memory.NewRepository()), quiet())
}

func listBooks(t *testing.T, h http.Handler) []bookSummary {
	t.Helper()
	w := serve(t, h, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []bookSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	return all
}

func createBook(t *testing.T, h http.Handler, title string) bookCreated {
	t.Helper()
	body, err := json.Marshal(map[string]string{"title": title})
	require.NoError(t, err)
	w := serve(t, h, http.MethodPost, "/api/books", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	var created bookCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func getDetail(t *testing.T, h http.Handler, id string) bookDetail {
	t.Helper()
	w := serve(t, h, http.MethodGet, "/api/books/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var d bookDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	return d
}

func TestLibraryScenario(t *testing.T) {
	h := newLibrary(t)

	created := createBook(t, h, "Dune")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune", created.Title)

	assert.Equal(t, []bookSummary{{ID: created.ID, Title: "Dune", CommentCount: 0}}, listBooks(t, h))

	w := serve(t, h, http.MethodPost, "/api/books/"+created.ID, `{"comment":"Great book"}`)
	assert.JSONEq(t, `{"_id":"`+created.ID+`","title":"Dune","comments":["Great book"]}`, w.Body.String())

	assert.Equal(t, MsgDeleted, serve(t, h, http.MethodDelete, "/api/books/"+created.ID, "").Body.String())
	assert.Equal(t, MsgNoBook, serve(t, h, http.MethodGet, "/api/books/"+created.ID, "").Body.String())
}

func TestCreate_Idempotent(t *testing.T) {
	h := newLibrary(t)
	first := createBook(t, h, "Emma")
	second := createBook(t, h, "Emma")
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, listBooks(t, h), 1)
}

func TestCreate_MissingTitleKeepsSize(t *testing.T) {
	h := newLibrary(t)
	createBook(t, h, "Emma")
	for _, body := range []string{"", `{}`, `{"title":""}`} {
		w := serve(t, h, http.MethodPost, "/api/books", body)
		assert.Equal(t, MsgMissingTitle, w.Body.String())
	}
	assert.Len(t, listBooks(t, h), 1)
}

func TestGetOne_NotFoundKinds(t *testing.T) {
	h := newLibrary(t)
	for _, id := range []string{"not-an-id", "5f1e3c1a-0000-4000-8000-000000000000"} {
		w := serve(t, h, http.MethodGet, "/api/books/"+id, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, MsgNoBook, w.Body.String(), id)
	}
}

func TestAddComment_Appends(t *testing.T) {
	h := newLibrary(t)
	id := createBook(t, h, "Ulysses").ID
	serve(t, h, http.MethodPost, "/api/books/"+id, `{"comment":"first"}`)
	before := getDetail(t, h, id)

	serve(t, h, http.MethodPost, "/api/books/"+id, `{"comment":"second"}`)
	after := getDetail(t, h, id)
	assert.Len(t, after.Comments, len(before.Comments)+1)
	assert.Equal(t, "second", after.Comments[len(after.Comments)-1])

	w := serve(t, h, http.MethodPost, "/api/books/"+id, `{"comment":""}`)
	assert.Equal(t, MsgMissingComment, w.Body.String())
	assert.Equal(t, after.Comments, getDetail(t, h, id).Comments)
	assert.Equal(t, 2, listBooks(t, h)[0].CommentCount)
}

func TestAddComment_InvalidID(t *testing.T) {
	h := newLibrary(t)
	assert.Equal(t, MsgNoBook, serve(t, h, http.MethodPost, "/api/books/bogus", `{"comment":"hi"}`).Body.String())
	// the missing comment is reported before the id is looked at
	assert.Equal(t, MsgMissingComment, serve(t, h, http.MethodPost, "/api/books/bogus", `{}`).Body.String())
}

func TestDeleteOne_ShrinksByOne(t *testing.T) {
	h := newLibrary(t)
	id := createBook(t, h, "Dune").ID
	createBook(t, h, "Emma")
	assert.Equal(t, MsgNoBook, serve(t, h, http.MethodDelete, "/api/books/bogus", "").Body.String())
	assert.Equal(t, MsgDeleted, serve(t, h, http.MethodDelete, "/api/books/"+id, "").Body.String())
	all := listBooks(t, h)
	require.Len(t, all, 1)
	assert.Equal(t, "Emma", all[0].Title)
}

func TestDeleteAll(t *testing.T) {
	h := newLibrary(t)
	assert.Equal(t, MsgCompleteDeleted, serve(t, h, http.MethodDelete, "/api/books", "").Body.String())
	createBook(t, h, "Dune")
	createBook(t, h, "Emma")
	assert.Equal(t, MsgCompleteDeleted, serve(t, h, http.MethodDelete, "/api/books", "").Body.String())
	assert.Empty(t, listBooks(t, h))
	assert.JSONEq(t, `[]`, serve(t, h, http.MethodGet, "/api/books", "").Body.String())
}
