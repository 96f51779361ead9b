package deletion

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// fitnessDeleter and medicalDeleter are the two domain dispatchers. Each
// receives a reconstructed request containing only its own domain's subset
// of the selection, with the original Total metadata preserved.
type fitnessDeleter interface {
	deleteTypes(ctx context.Context, req PermissionTypes, packageName string) error
}

type medicalDeleter interface {
	deleteTypes(ctx context.Context, req PermissionTypes, dataSourceIDs []uuid.UUID) error
}

// fitnessDispatcher turns a fitness permission-type selection into a single
// delete-by-record-type call.
type fitnessDispatcher struct {
	gateway StoreGateway
}

func (d fitnessDispatcher) deleteTypes(ctx context.Context, req PermissionTypes, packageName string) error {
	if len(req.Types) == 0 {
		return fmt.Errorf("%w: fitness dispatcher called with no types", ErrEmptySelection)
	}
	recordTypes := make([]permtype.FitnessType, 0, len(req.Types))
	for _, t := range req.Types {
		ft, ok := t.(permtype.FitnessType)
		if !ok {
			return fmt.Errorf("%w: %v is not a fitness type", ErrUnsupportedRequest, t)
		}
		recordTypes = append(recordTypes, ft)
	}
	return d.gateway.DeleteFitnessRecords(ctx, recordTypes, packageName)
}

// medicalDispatcher turns a medical permission-type selection into a single
// delete-by-FHIR-resource-type call. The AllMedicalData sentinel has no
// resource type of its own: its presence drops the resource-type restriction
// entirely instead of being mapped.
type medicalDispatcher struct {
	gateway StoreGateway
}

func (d medicalDispatcher) deleteTypes(ctx context.Context, req PermissionTypes, dataSourceIDs []uuid.UUID) error {
	if len(req.Types) == 0 {
		return fmt.Errorf("%w: medical dispatcher called with no types", ErrEmptySelection)
	}

	unrestricted := false
	var resourceTypes []string
	for _, t := range req.Types {
		mt, ok := t.(permtype.MedicalType)
		if !ok {
			return fmt.Errorf("%w: %v is not a medical type", ErrUnsupportedRequest, t)
		}
		if mt == permtype.AllMedicalData {
			unrestricted = true
			continue
		}
		rt, err := mt.FHIRResourceType()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedRequest, err)
		}
		resourceTypes = append(resourceTypes, rt)
	}
	if unrestricted {
		resourceTypes = nil
	}
	return d.gateway.DeleteMedicalResources(ctx, resourceTypes, dataSourceIDs)
}
