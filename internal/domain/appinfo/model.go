// Package appinfo resolves display metadata for apps connected to the
// health data store.
package appinfo

// AppMetadata identifies one connected app. Equality is by PackageName;
// DisplayName and IconURL are presentation-only.
type AppMetadata struct {
	PackageName string `db:"package_name" json:"package_name"`
	DisplayName string `db:"display_name" json:"display_name"`
	IconURL     string `db:"icon_url" json:"icon_url,omitempty"`
}
