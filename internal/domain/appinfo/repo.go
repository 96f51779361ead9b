package appinfo

import "context"

// Repository reads app metadata.
type Repository interface {
	// AppMetadata resolves metadata for one package name. Unknown packages
	// resolve to metadata carrying the package name as display name rather
	// than an error, so callers building display lists never lose an entry.
	AppMetadata(ctx context.Context, packageName string) (AppMetadata, error)
}
