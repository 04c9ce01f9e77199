package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// DocumentRepository persists consultation documents in the "documents"
// collection. Every setter is a single UpdateOne so that content, status and
// last-modified land in one atomic write.
type DocumentRepository struct {
	collection *mongo.Collection
}

// NewDocumentRepository creates a new MongoDB document repository
func NewDocumentRepository(db *mongo.Database) repositories.DocumentRepository {
	return &DocumentRepository{
		collection: db.Collection("documents"),
	}
}

// Create implements repositories.DocumentRepository
func (r *DocumentRepository) Create(ctx context.Context, document *entities.Document) error {
	if document == nil {
		return errors.New("document cannot be nil")
	}
	if err := document.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	if document.LastModifiedAt.IsZero() {
		document.LastModifiedAt = now
	}
	if document.ID.IsZero() {
		document.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, document); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetByID implements repositories.DocumentRepository
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entities.ErrDocumentNotFound
	}

	var document entities.Document
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	return &document, nil
}

// SetTranscriptStatus implements repositories.DocumentRepository
func (r *DocumentRepository) SetTranscriptStatus(ctx context.Context, id string, status entities.StageStatus) error {
	return r.patch(ctx, id, bson.M{
		"transcript_status": status,
		"last_modified_at":  time.Now(),
	})
}

// SetTranscript implements repositories.DocumentRepository
func (r *DocumentRepository) SetTranscript(ctx context.Context, id string, transcript string, status entities.StageStatus) error {
	return r.patch(ctx, id, bson.M{
		"transcript":        transcript,
		"transcript_status": status,
		"last_modified_at":  time.Now(),
	})
}

// SetStructuredRecordStatus implements repositories.DocumentRepository
func (r *DocumentRepository) SetStructuredRecordStatus(ctx context.Context, id string, status entities.StageStatus) error {
	return r.patch(ctx, id, bson.M{
		"structured_record_status": status,
		"last_modified_at":         time.Now(),
	})
}

// SetStructuredRecord implements repositories.DocumentRepository
func (r *DocumentRepository) SetStructuredRecord(ctx context.Context, id string, record *entities.MedicalRecord, status entities.StageStatus) error {
	return r.patch(ctx, id, bson.M{
		"structured_record":        record,
		"structured_record_status": status,
		"last_modified_at":         time.Now(),
	})
}

// FindProcessing implements repositories.DocumentRepository
func (r *DocumentRepository) FindProcessing(ctx context.Context, stage entities.Stage, before time.Time) ([]string, error) {
	field := "transcript_status"
	if stage == entities.StageExtraction {
		field = "structured_record_status"
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		field:              entities.StatusProcessing,
		"last_modified_at": bson.M{"$lt": before},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan processing documents: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error scanning processing documents: %w", err)
	}

	return ids, nil
}

func (r *DocumentRepository) patch(ctx context.Context, id string, fields bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entities.ErrDocumentNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrDocumentNotFound
	}

	return nil
}
