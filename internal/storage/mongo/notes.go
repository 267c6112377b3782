package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
)

// ticketSeqBase — ticket = base + значение счётчика, первый ticket получается 500.
const ticketSeqBase = 499

// noteDoc — представление заметки в MongoDB.
type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Title     string             `bson:"title"`
	Text      string             `bson:"text"`
	Completed bool               `bson:"completed"`
	Ticket    int64              `bson:"ticket"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func fromNoteDoc(doc noteDoc) (*models.Note, error) {
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse note owner id: %w", err)
	}

	return &models.Note{
		ID:        doc.ID.Hex(),
		UserID:    userID,
		Title:     doc.Title,
		Text:      doc.Text,
		Completed: doc.Completed,
		Ticket:    doc.Ticket,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// nextTicket атомарно выдаёт следующий номер ticket через коллекцию counters.
func (m *Mongo) nextTicket(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := m.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: "ticketNums"}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("ticket counter: %w", err)
	}

	return ticketSeqBase + counter.Seq, nil
}

// SaveNote создаёт заметку, присваивая ей сквозной ticket-номер.
// Конфликт уникальности title (без учёта регистра) транслируется
// в storage.ErrAlreadyExists.
func (m *Mongo) SaveNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	const op = "storage/mongo/SaveNote"

	ticket, err := m.nextTicket(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// MongoDB DateTime хранит миллисекунды.
	toMS := func(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

	doc := noteDoc{
		UserID:    note.UserID.String(),
		Title:     note.Title,
		Text:      note.Text,
		Completed: note.Completed,
		Ticket:    ticket,
		CreatedAt: toMS(note.CreatedAt),
		UpdatedAt: toMS(note.UpdatedAt),
	}

	res, err := m.notes.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	created := *note
	created.ID = oid.Hex()
	created.Ticket = ticket
	created.CreatedAt = doc.CreatedAt
	created.UpdatedAt = doc.UpdatedAt

	return &created, nil
}

// NoteByID находит заметку по ID.
func (m *Mongo) NoteByID(ctx context.Context, id string) (*models.Note, error) {
	const op = "storage/mongo/NoteByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc noteDoc
	if err := m.notes.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	note, err := fromNoteDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return note, nil
}

// ListNotes возвращает все заметки, отсортированные по ticket.
func (m *Mongo) ListNotes(ctx context.Context) ([]models.Note, error) {
	const op = "storage/mongo/ListNotes"

	cur, err := m.notes.Find(ctx, bson.D{}, findSortedBy("ticket"))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var notes []models.Note
	for cur.Next(ctx) {
		var doc noteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		note, err := fromNoteDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		notes = append(notes, *note)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return notes, nil
}

// UpdateNote перезаписывает изменяемые поля заметки.
func (m *Mongo) UpdateNote(ctx context.Context, note *models.Note) error {
	const op = "storage/mongo/UpdateNote"

	oid, err := primitive.ObjectIDFromHex(note.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "user_id", Value: note.UserID.String()},
		{Key: "title", Value: note.Title},
		{Key: "text", Value: note.Text},
		{Key: "completed", Value: note.Completed},
		{Key: "updated_at", Value: note.UpdatedAt.UTC().Truncate(time.Millisecond)},
	}}}

	res, err := m.notes.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: update: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteNote удаляет заметку по ID.
func (m *Mongo) DeleteNote(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteNote"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.notes.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// CountNotesByUser возвращает количество заметок, закреплённых за пользователем.
func (m *Mongo) CountNotesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage/mongo/CountNotesByUser"

	count, err := m.notes.CountDocuments(ctx, bson.D{{Key: "user_id", Value: userID.String()}})
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", op, err)
	}

	return count, nil
}
