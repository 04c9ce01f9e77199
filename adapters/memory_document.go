package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// MemoryDocumentRepository is an in-memory implementation of
// DocumentRepository and LeaseRepository. It backs development mode and the
// service tests; writes hold the mutex so content+status updates are atomic
// to concurrent readers, matching the persistence contract.
type MemoryDocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]*entities.Document
	leases    map[string]*repositories.StageLease // documentID+"/"+stage
}

// NewMemoryDocumentRepository creates a new in-memory document repository
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		documents: make(map[string]*entities.Document),
		leases:    make(map[string]*repositories.StageLease),
	}
}

// Create implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) Create(ctx context.Context, document *entities.Document) error {
	if document == nil {
		return errors.New("document cannot be nil")
	}
	if err := document.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if document.ID.IsZero() {
		document.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	if document.LastModifiedAt.IsZero() {
		document.LastModifiedAt = now
	}

	copied := *document
	m.documents[document.ID.Hex()] = &copied
	return nil
}

// GetByID implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	document, exists := m.documents[id]
	if !exists {
		return nil, entities.ErrDocumentNotFound
	}

	copied := *document
	return &copied, nil
}

// SetTranscriptStatus implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) SetTranscriptStatus(ctx context.Context, id string, status entities.StageStatus) error {
	return m.patch(id, func(d *entities.Document) {
		d.TranscriptStatus = status
	})
}

// SetTranscript implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) SetTranscript(ctx context.Context, id string, transcript string, status entities.StageStatus) error {
	return m.patch(id, func(d *entities.Document) {
		d.Transcript = transcript
		d.TranscriptStatus = status
	})
}

// SetStructuredRecordStatus implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) SetStructuredRecordStatus(ctx context.Context, id string, status entities.StageStatus) error {
	return m.patch(id, func(d *entities.Document) {
		d.StructuredRecordStatus = status
	})
}

// SetStructuredRecord implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) SetStructuredRecord(ctx context.Context, id string, record *entities.MedicalRecord, status entities.StageStatus) error {
	return m.patch(id, func(d *entities.Document) {
		d.StructuredRecord = record
		d.StructuredRecordStatus = status
	})
}

// FindProcessing implements repositories.DocumentRepository
func (m *MemoryDocumentRepository) FindProcessing(ctx context.Context, stage entities.Stage, before time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, d := range m.documents {
		if d.StatusFor(stage) == entities.StatusProcessing && d.LastModifiedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryDocumentRepository) patch(id string, apply func(*entities.Document)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	document, exists := m.documents[id]
	if !exists {
		return entities.ErrDocumentNotFound
	}

	apply(document)
	document.LastModifiedAt = time.Now()
	return nil
}

// Acquire implements repositories.LeaseRepository
func (m *MemoryDocumentRepository) Acquire(ctx context.Context, documentID string, stage entities.Stage, owner string, ttl time.Duration) (*repositories.StageLease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := documentID + "/" + string(stage)
	now := time.Now()
	if existing, ok := m.leases[key]; ok {
		if existing.Owner != owner && existing.ExpiresAt.After(now) {
			return nil, entities.ErrStageBusy
		}
	}

	lease := &repositories.StageLease{
		DocumentID: documentID,
		Stage:      stage,
		Owner:      owner,
		ExpiresAt:  now.Add(ttl),
	}
	m.leases[key] = lease
	return lease, nil
}

// Release implements repositories.LeaseRepository
func (m *MemoryDocumentRepository) Release(ctx context.Context, documentID string, stage entities.Stage, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := documentID + "/" + string(stage)
	if existing, ok := m.leases[key]; ok && existing.Owner == owner {
		delete(m.leases, key)
	}
	return nil
}

// Get implements repositories.LeaseRepository
func (m *MemoryDocumentRepository) Get(ctx context.Context, documentID string, stage entities.Stage) (*repositories.StageLease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lease, ok := m.leases[documentID+"/"+string(stage)]
	if !ok {
		return nil, nil
	}
	copied := *lease
	return &copied, nil
}
