package appinfo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) AppMetadata(ctx context.Context, packageName string) (AppMetadata, error) {
	var m AppMetadata
	err := r.pool.QueryRow(ctx, `
		SELECT package_name, display_name, COALESCE(icon_url, '')
		FROM app WHERE package_name = $1`, packageName).
		Scan(&m.PackageName, &m.DisplayName, &m.IconURL)
	if errors.Is(err, pgx.ErrNoRows) {
		// Apps can contribute data before registering metadata.
		return AppMetadata{PackageName: packageName, DisplayName: packageName}, nil
	}
	if err != nil {
		return AppMetadata{}, err
	}
	return m, nil
}
