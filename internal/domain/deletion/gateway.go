package deletion

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// StoreGateway is the mutation boundary to the underlying record stores.
// Deletes are idempotent at the request level: deleting an already-empty
// selection succeeds with zero effect. A single call is not transactional
// across types; partial failure mid-call surfaces as one error for the
// whole call.
type StoreGateway interface {
	// DeleteFitnessRecords deletes every record of the given types over an
	// unbounded time range. recordTypes must be non-empty. An empty
	// packageName means all apps; otherwise the delete is scoped to that
	// app's records.
	DeleteFitnessRecords(ctx context.Context, recordTypes []permtype.FitnessType, packageName string) error

	// DeleteMedicalResources deletes medical resources matching the given
	// FHIR resource types and/or data sources. A nil resourceTypes slice
	// means no resource-type restriction (the AllMedicalData path); a nil
	// dataSourceIDs slice means all data sources.
	DeleteMedicalResources(ctx context.Context, resourceTypes []string, dataSourceIDs []uuid.UUID) error

	// DeleteFitnessEntries deletes individual fitness records by id.
	DeleteFitnessEntries(ctx context.Context, ids []uuid.UUID) error

	// DeleteMedicalEntries deletes individual medical resources by id.
	DeleteMedicalEntries(ctx context.Context, ids []uuid.UUID) error

	// DeleteAppData removes everything one app has written in both domains,
	// including its contribution history and medical data sources.
	DeleteAppData(ctx context.Context, packageName string) error

	// DeleteAllData empties both record stores.
	DeleteAllData(ctx context.Context) error

	// MedicalDataSources lists the ids of the data sources one app owns.
	MedicalDataSources(ctx context.Context, packageName string) ([]uuid.UUID, error)
}
