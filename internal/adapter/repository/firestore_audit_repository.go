package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/pkg/errors"
)

const auditCollection = "moderation_audit"

type firestoreAuditRepository struct {
	client *firestore.Client
}

func NewFirestoreAuditRepository(client *firestore.Client) repository.AuditRepository {
	return &firestoreAuditRepository{
		client: client,
	}
}

func (r *firestoreAuditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(auditCollection).Doc(entry.ID).Set(ctx, entry)
	if err != nil {
		return classifyFirestore("Failed to write audit entry", err)
	}
	return nil
}

func (r *firestoreAuditRepository) List(ctx context.Context, limit int) ([]*entity.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	iter := r.client.Collection(auditCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	entries := make([]*entity.AuditEntry, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyFirestore("Failed to list audit entries", err)
		}

		var entry entity.AuditEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, errors.Upstream("Failed to parse audit entry", err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func classifyFirestore(message string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound("Audit log", err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.Upstream(message+": credentials rejected", err)
	default:
		return errors.Upstream(message, err)
	}
}
