package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/personal-library/book"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
MongoDB Repository Implementation

Books are documents { _id: ObjectId, title: string, comments: [string] }.
The collection carries a $jsonSchema validator so that a missing title is
rejected by the server too, not only by book.Validate.
*/

// codeNamespaceExists is returned by the server when the collection already exists
const codeNamespaceExists = 48

type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the stored shape of a book
type document struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Comments []string           `bson:"comments"`
}

func (d document) toBook() book.Book {
	comments := d.Comments
	if comments == nil {
		comments = []string{}
	}
	return book.Book{
		ID:       d.ID.Hex(),
		Title:    d.Title,
		Comments: comments,
	}
}

// NewRepository connects to uri and uses database/collection for books
func NewRepository(ctx context.Context, uri, database, collection string) (*Repository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &Repository{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewRepositoryWithCollection wraps an existing collection; Close leaves its client alone
func NewRepositoryWithCollection(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// EnsureSchema creates the collection with its validator and the title index
func (r *Repository) EnsureSchema(ctx context.Context) error {
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title"},
			"properties": bson.M{
				"title": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
				"comments": bson.M{
					"bsonType": "array",
					"items":    bson.M{"bsonType": "string"},
				},
			},
		},
	}
	opts := options.CreateCollection().SetValidator(validator)
	err := r.coll.Database().CreateCollection(ctx, r.coll.Name(), opts)
	if err != nil && !isNamespaceExists(err) {
		return fmt.Errorf("creating collection: %w", err)
	}

	_, err = r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating title index: %w", err)
	}
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeNamespaceExists
	}
	return false
}

// parseID validates identifier syntax without a round trip
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, book.ErrInvalidID
	}
	return oid, nil
}

func projection() bson.D {
	return bson.D{{Key: "_id", Value: 1}, {Key: "title", Value: 1}, {Key: "comments", Value: 1}}
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (book.Book, error) {
	var d document
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(projection())).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("finding book: %w", err)
	}
	return d.toBook(), nil
}

func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	oid, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *Repository) SelectByTitle(ctx context.Context, title string) (book.Book, error) {
	return r.findOne(ctx, bson.D{{Key: "title", Value: title}})
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetProjection(projection()))
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding books: %w", err)
	}
	books := make([]book.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toBook())
	}
	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	if err := book.Validate(b); err != nil {
		return book.Book{}, err
	}
	d := document{
		ID:       primitive.NewObjectID(),
		Title:    b.Title,
		Comments: b.Comments,
	}
	if d.Comments == nil {
		d.Comments = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return d.toBook(), nil
}

// AppendComment pushes atomically and returns the document after the update
func (r *Repository) AppendComment(ctx context.Context, id, comment string) (book.Book, error) {
	oid, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(projection())
	var d document
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: comment}}}},
		opts,
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("appending comment: %w", err)
	}
	return d.toBook(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if res.DeletedCount == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("deleting books: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongo: %w", err)
	}
	return nil
}
