package access

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthgate/healthgate/internal/domain/appinfo"
	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// RepoPG implements DeclarationReader and ContributorReader against the
// app_permission / *_contribution tables.
type RepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{pool: pool}
}

func (r *RepoPG) AppsWithFitnessPermissions(ctx context.Context) ([]string, error) {
	return r.appsWithDomain(ctx, "fitness")
}

func (r *RepoPG) AppsWithMedicalPermissions(ctx context.Context) ([]string, error) {
	return r.appsWithDomain(ctx, "medical")
}

func (r *RepoPG) appsWithDomain(ctx context.Context, domain string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT package_name FROM app_permission
		WHERE domain = $1 ORDER BY package_name`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []string
	for rows.Next() {
		var pkg string
		if err := rows.Scan(&pkg); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, rows.Err()
}

func (r *RepoPG) GrantedPermissions(ctx context.Context, packageName string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT permission FROM app_permission
		WHERE package_name = $1 AND granted`, packageName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *RepoPG) AppClassification(ctx context.Context, packageName string) (Classification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT domain FROM app_permission
		WHERE package_name = $1`, packageName)
	if err != nil {
		return ClassificationUnspecified, err
	}
	defer rows.Close()

	var fitness, medical bool
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return ClassificationUnspecified, err
		}
		switch domain {
		case "fitness":
			fitness = true
		case "medical":
			medical = true
		}
	}
	if err := rows.Err(); err != nil {
		return ClassificationUnspecified, err
	}

	switch {
	case fitness && medical:
		return ClassificationCombined, nil
	case fitness:
		return ClassificationFitnessOnly, nil
	case medical:
		return ClassificationMedicalOnly, nil
	default:
		return ClassificationUnspecified, nil
	}
}

func (r *RepoPG) FitnessContributors(ctx context.Context, t permtype.FitnessType) ([]appinfo.AppMetadata, error) {
	return r.contributors(ctx, `
		SELECT c.package_name, COALESCE(a.display_name, c.package_name), COALESCE(a.icon_url, '')
		FROM fitness_contribution c
		LEFT JOIN app a ON a.package_name = c.package_name
		WHERE c.record_type = $1
		ORDER BY c.package_name`, string(t))
}

func (r *RepoPG) MedicalContributors(ctx context.Context, t permtype.MedicalType) ([]appinfo.AppMetadata, error) {
	return r.contributors(ctx, `
		SELECT c.package_name, COALESCE(a.display_name, c.package_name), COALESCE(a.icon_url, '')
		FROM medical_contribution c
		LEFT JOIN app a ON a.package_name = c.package_name
		WHERE c.medical_type = $1
		ORDER BY c.package_name`, string(t))
}

func (r *RepoPG) contributors(ctx context.Context, query, arg string) ([]appinfo.AppMetadata, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []appinfo.AppMetadata
	for rows.Next() {
		var m appinfo.AppMetadata
		if err := rows.Scan(&m.PackageName, &m.DisplayName, &m.IconURL); err != nil {
			return nil, err
		}
		apps = append(apps, m)
	}
	return apps, rows.Err()
}
