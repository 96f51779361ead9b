// Package access computes, for one permission type, which connected apps can
// currently read or write that data and which apps only hold stale data from
// past writes.
package access

import "github.com/healthgate/healthgate/internal/domain/appinfo"

// Classification describes how an app accesses health data overall.
type Classification string

const (
	ClassificationFitnessOnly Classification = "fitness_only"
	ClassificationMedicalOnly Classification = "medical_only"
	ClassificationCombined    Classification = "combined"
	ClassificationUnspecified Classification = "unspecified"
)

// AppAccess pairs an app's metadata with its overall access classification.
// Inactive apps carry ClassificationUnspecified; the UI never drills into
// their per-type screens.
type AppAccess struct {
	appinfo.AppMetadata
	Classification Classification `json:"classification"`
}

// Result is the Read/Write/Inactive partition of apps for one permission
// type. Read and Write may overlap; Inactive is disjoint from both. Each
// list is sorted by display name, bytewise ascending, stable.
type Result struct {
	Read     []AppAccess `json:"read"`
	Write    []AppAccess `json:"write"`
	Inactive []AppAccess `json:"inactive"`
}
