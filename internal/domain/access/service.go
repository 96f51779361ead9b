package access

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/healthgate/healthgate/internal/domain/appinfo"
	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// ErrUnsupportedType is returned when a value outside the closed
// PermissionType set reaches the classifier. The check runs synchronously
// before any query is issued.
var ErrUnsupportedType = errors.New("unsupported permission type")

type Service struct {
	decls        DeclarationReader
	contributors ContributorReader
	apps         appinfo.Repository
}

func NewService(decls DeclarationReader, contributors ContributorReader, apps appinfo.Repository) *Service {
	return &Service{decls: decls, contributors: contributors, apps: apps}
}

// Classify partitions the apps relevant to t into Read, Write and Inactive.
//
// An app with a current read grant for t lands in Read, one with a current
// write grant in Write (both, if it holds both). An app that contributed
// data of type t in the past but now holds neither grant lands in Inactive.
// Apps with no grant and no history appear nowhere. A failing per-app query
// is treated as "no grants for this app"; classification itself never fails
// once the type is known to be supported.
func (s *Service) Classify(ctx context.Context, t permtype.PermissionType) (*Result, error) {
	switch pt := t.(type) {
	case permtype.FitnessType:
		if !pt.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, pt)
		}
		return s.classify(ctx, fitnessDomain{t: pt})
	case permtype.MedicalType:
		if !pt.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, pt)
		}
		return s.classify(ctx, medicalDomain{t: pt})
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

// accessDomain abstracts the per-domain pieces of classification: which
// declaration query applies, which contributing-apps resolver applies, and
// what a granted permission set means for this specific type.
type accessDomain interface {
	declaredApps(ctx context.Context, decls DeclarationReader) ([]string, error)
	contributors(ctx context.Context, reader ContributorReader) ([]appinfo.AppMetadata, error)
	canRead(granted map[string]bool) bool
	canWrite(granted map[string]bool) bool
}

type fitnessDomain struct{ t permtype.FitnessType }

func (d fitnessDomain) declaredApps(ctx context.Context, decls DeclarationReader) ([]string, error) {
	return decls.AppsWithFitnessPermissions(ctx)
}

func (d fitnessDomain) contributors(ctx context.Context, reader ContributorReader) ([]appinfo.AppMetadata, error) {
	return reader.FitnessContributors(ctx, d.t)
}

func (d fitnessDomain) canRead(granted map[string]bool) bool {
	return granted[d.t.ReadPermission()]
}

func (d fitnessDomain) canWrite(granted map[string]bool) bool {
	return granted[d.t.WritePermission()]
}

type medicalDomain struct{ t permtype.MedicalType }

func (d medicalDomain) declaredApps(ctx context.Context, decls DeclarationReader) ([]string, error) {
	return decls.AppsWithMedicalPermissions(ctx)
}

func (d medicalDomain) contributors(ctx context.Context, reader ContributorReader) ([]appinfo.AppMetadata, error) {
	return reader.MedicalContributors(ctx, d.t)
}

// canRead excludes the AllMedicalData sentinel: holding the all-data read
// permission never satisfies a per-type read check for the sentinel itself.
func (d medicalDomain) canRead(granted map[string]bool) bool {
	if d.t == permtype.AllMedicalData {
		return false
	}
	return granted[d.t.ReadPermission()]
}

// canWrite checks the single all-or-nothing medical write permission;
// medical write is granted at the document-provider level, not per type.
func (d medicalDomain) canWrite(granted map[string]bool) bool {
	return granted[permtype.WriteMedicalDataPermission]
}

func (s *Service) classify(ctx context.Context, domain accessDomain) (*Result, error) {
	declared, err := domain.declaredApps(ctx, s.decls)
	if err != nil {
		// Without the declared set there is nothing to classify against.
		return nil, fmt.Errorf("list declared apps: %w", err)
	}
	contributors, err := domain.contributors(ctx, s.contributors)
	if err != nil {
		// History is a secondary signal. A failed contributors query
		// degrades to an empty Inactive list so the grants still show.
		contributors = nil
	}

	result := &Result{}
	hasGrant := make(map[string]bool)

	for _, pkg := range declared {
		perms, err := s.decls.GrantedPermissions(ctx, pkg)
		if err != nil {
			// One broken app must not take down the whole display.
			continue
		}
		granted := make(map[string]bool, len(perms))
		for _, p := range perms {
			granted[p] = true
		}

		read := domain.canRead(granted)
		write := domain.canWrite(granted)
		if !read && !write {
			continue
		}

		app := s.appAccess(ctx, pkg)
		hasGrant[pkg] = true
		if read {
			result.Read = append(result.Read, app)
		}
		if write {
			result.Write = append(result.Write, app)
		}
	}

	for _, meta := range contributors {
		if hasGrant[meta.PackageName] {
			continue
		}
		result.Inactive = append(result.Inactive, AppAccess{
			AppMetadata:    meta,
			Classification: ClassificationUnspecified,
		})
	}

	sortByDisplayName(result.Read)
	sortByDisplayName(result.Write)
	sortByDisplayName(result.Inactive)
	return result, nil
}

// appAccess resolves metadata and overall classification for an app holding
// a current grant. Resolution failures degrade to package-name metadata and
// an unspecified classification.
func (s *Service) appAccess(ctx context.Context, pkg string) AppAccess {
	meta, err := s.apps.AppMetadata(ctx, pkg)
	if err != nil {
		meta = appinfo.AppMetadata{PackageName: pkg, DisplayName: pkg}
	}
	class, err := s.decls.AppClassification(ctx, pkg)
	if err != nil {
		class = ClassificationUnspecified
	}
	return AppAccess{AppMetadata: meta, Classification: class}
}

// sortByDisplayName orders apps by display name, bytewise ascending.
// The sort is stable so ties keep their source order.
func sortByDisplayName(apps []AppAccess) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].DisplayName < apps[j].DisplayName
	})
}
