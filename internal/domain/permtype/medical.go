package permtype

import "fmt"

// MedicalType identifies one FHIR-backed medical record type.
//
// AllMedicalData is a sentinel meaning "unscoped medical data": it backs the
// all-or-nothing medical write permission and the unrestricted medical delete,
// and has no FHIR resource type of its own.
type MedicalType string

func (MedicalType) isPermissionType() {}

func (t MedicalType) String() string { return string(t) }

const (
	AllMedicalData        MedicalType = "ALL_MEDICAL_DATA"
	Immunizations         MedicalType = "IMMUNIZATIONS"
	AllergiesIntolerances MedicalType = "ALLERGIES_INTOLERANCES"
	Conditions            MedicalType = "CONDITIONS"
	Medications           MedicalType = "MEDICATIONS"
	LaboratoryResults     MedicalType = "LABORATORY_RESULTS"
	Procedures            MedicalType = "PROCEDURES"
	VitalSigns            MedicalType = "VITAL_SIGNS"
)

// fhirResourceTypes maps each concrete medical type to its single FHIR
// resource type. The AllMedicalData sentinel deliberately has no entry.
var fhirResourceTypes = map[MedicalType]string{
	Immunizations:         "Immunization",
	AllergiesIntolerances: "AllergyIntolerance",
	Conditions:            "Condition",
	Medications:           "MedicationStatement",
	LaboratoryResults:     "DiagnosticReport",
	Procedures:            "Procedure",
	VitalSigns:            "Observation",
}

// ConcreteMedicalTypes returns every medical type except the AllMedicalData
// sentinel, in display order.
func ConcreteMedicalTypes() []MedicalType {
	return []MedicalType{
		AllergiesIntolerances,
		Conditions,
		Immunizations,
		LaboratoryResults,
		Medications,
		Procedures,
		VitalSigns,
	}
}

// AllMedicalTypes returns every medical type including the sentinel.
func AllMedicalTypes() []MedicalType {
	return append([]MedicalType{AllMedicalData}, ConcreteMedicalTypes()...)
}

// Valid reports whether t is one of the declared medical types.
func (t MedicalType) Valid() bool {
	if t == AllMedicalData {
		return true
	}
	_, ok := fhirResourceTypes[t]
	return ok
}

// FHIRResourceType returns the FHIR resource type t maps to. The
// AllMedicalData sentinel has no resource type; callers that want "delete
// everything medical" must special-case it instead of mapping it.
func (t MedicalType) FHIRResourceType() (string, error) {
	rt, ok := fhirResourceTypes[t]
	if !ok {
		return "", fmt.Errorf("medical type %s has no FHIR resource type", t)
	}
	return rt, nil
}

// MedicalTypeForResource is the inverse of FHIRResourceType. The bool is
// false for resource types no medical type maps to.
func MedicalTypeForResource(resourceType string) (MedicalType, bool) {
	for mt, rt := range fhirResourceTypes {
		if rt == resourceType {
			return mt, true
		}
	}
	return "", false
}

// WriteMedicalDataPermission is the single all-or-nothing permission string
// granting write access to every medical type. Medical write is not granted
// per type.
const WriteMedicalDataPermission = "health.WRITE_MEDICAL_DATA"

// ReadPermission returns the permission string granting read access to t.
// The sentinel's read permission exists as a grantable string but never
// satisfies a per-type read check on its own.
func (t MedicalType) ReadPermission() string { return "health.READ_MEDICAL_DATA_" + string(t) }
