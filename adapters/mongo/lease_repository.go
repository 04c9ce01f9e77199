package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// LeaseRepository persists per-document stage leases in the "leases"
// collection. A lease is acquired with a conditional upsert: it succeeds when
// no lease exists for (document, stage), the existing one has expired, or the
// caller already owns it. A live lease held by someone else means the stage
// is busy.
type LeaseRepository struct {
	collection *mongo.Collection
}

// NewLeaseRepository creates a new MongoDB lease repository
func NewLeaseRepository(db *mongo.Database) *LeaseRepository {
	return &LeaseRepository{
		collection: db.Collection("leases"),
	}
}

// Acquire implements repositories.LeaseRepository
func (r *LeaseRepository) Acquire(ctx context.Context, documentID string, stage entities.Stage, owner string, ttl time.Duration) (*repositories.StageLease, error) {
	now := time.Now()
	lease := &repositories.StageLease{
		DocumentID: documentID,
		Stage:      stage,
		Owner:      owner,
		ExpiresAt:  now.Add(ttl),
	}

	filter := bson.M{
		"document_id": documentID,
		"stage":       stage,
		"$or": []bson.M{
			{"expires_at": bson.M{"$lt": now}},
			{"owner": owner},
		},
	}
	update := bson.M{"$set": bson.M{
		"document_id": documentID,
		"stage":       stage,
		"owner":       owner,
		"expires_at":  lease.ExpiresAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// A duplicate key on the (document_id, stage) unique index means the
		// upsert raced a live lease.
		if mongo.IsDuplicateKeyError(err) {
			return nil, entities.ErrStageBusy
		}
		return nil, fmt.Errorf("failed to acquire lease for document %s: %w", documentID, err)
	}

	return lease, nil
}

// Release implements repositories.LeaseRepository
func (r *LeaseRepository) Release(ctx context.Context, documentID string, stage entities.Stage, owner string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{
		"document_id": documentID,
		"stage":       stage,
		"owner":       owner,
	})
	if err != nil {
		return fmt.Errorf("failed to release lease for document %s: %w", documentID, err)
	}
	return nil
}

// Get implements repositories.LeaseRepository
func (r *LeaseRepository) Get(ctx context.Context, documentID string, stage entities.Stage) (*repositories.StageLease, error) {
	var doc struct {
		DocumentID string         `bson:"document_id"`
		Stage      entities.Stage `bson:"stage"`
		Owner      string         `bson:"owner"`
		ExpiresAt  time.Time      `bson:"expires_at"`
	}
	err := r.collection.FindOne(ctx, bson.M{"document_id": documentID, "stage": stage}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lease for document %s: %w", documentID, err)
	}

	return &repositories.StageLease{
		DocumentID: doc.DocumentID,
		Stage:      doc.Stage,
		Owner:      doc.Owner,
		ExpiresAt:  doc.ExpiresAt,
	}, nil
}

// EnsureIndexes creates the unique (document_id, stage) index backing the
// acquire upsert. Call once at startup.
func (r *LeaseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "document_id", Value: 1}, {Key: "stage", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create lease index: %w", err)
	}
	return nil
}
