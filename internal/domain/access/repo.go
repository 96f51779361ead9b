package access

import (
	"context"

	"github.com/healthgate/healthgate/internal/domain/appinfo"
	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// DeclarationReader reads permission declarations and current grants. All
// methods are side-effect-free queries.
type DeclarationReader interface {
	// AppsWithFitnessPermissions lists package names declaring any fitness
	// health permission.
	AppsWithFitnessPermissions(ctx context.Context) ([]string, error)
	// AppsWithMedicalPermissions lists package names declaring any medical
	// health permission.
	AppsWithMedicalPermissions(ctx context.Context) ([]string, error)
	// GrantedPermissions returns the permission strings currently granted
	// to one app.
	GrantedPermissions(ctx context.Context, packageName string) ([]string, error)
	// AppClassification reports how the app accesses health data overall.
	AppClassification(ctx context.Context, packageName string) (Classification, error)
}

// ContributorReader resolves the apps that have ever written data of a given
// permission type, regardless of current grant state.
type ContributorReader interface {
	FitnessContributors(ctx context.Context, t permtype.FitnessType) ([]appinfo.AppMetadata, error)
	MedicalContributors(ctx context.Context, t permtype.MedicalType) ([]appinfo.AppMetadata, error)
}
