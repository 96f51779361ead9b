// Package permtype defines the closed set of health permission types the
// service mediates access to: fitness record types grouped into categories,
// and medical (FHIR-backed) record types.
package permtype

import (
	"fmt"
	"strings"
)

// PermissionType is the closed union of FitnessType and MedicalType.
// No other implementations exist; switches over the variant tag use a
// default arm that reports the unsupported value.
type PermissionType interface {
	fmt.Stringer
	isPermissionType()
}

// Parse resolves a wire-format type name (case-insensitive) into a
// PermissionType. Fitness names win on the (nonexistent) overlap; medical
// names are tried second.
func Parse(name string) (PermissionType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	ft := FitnessType(upper)
	if ft.Valid() {
		return ft, nil
	}
	mt := MedicalType(upper)
	if mt.Valid() {
		return mt, nil
	}
	return nil, fmt.Errorf("unknown permission type %q", name)
}
