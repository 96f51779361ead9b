package permtype

// FitnessType identifies one ordinary (non-medical) health record type.
type FitnessType string

func (FitnessType) isPermissionType() {}

func (t FitnessType) String() string { return string(t) }

const (
	Steps                FitnessType = "STEPS"
	Distance             FitnessType = "DISTANCE"
	Exercise             FitnessType = "EXERCISE"
	ActiveCaloriesBurned FitnessType = "ACTIVE_CALORIES_BURNED"
	FloorsClimbed        FitnessType = "FLOORS_CLIMBED"
	Weight               FitnessType = "WEIGHT"
	Height               FitnessType = "HEIGHT"
	BodyFat              FitnessType = "BODY_FAT"
	Menstruation         FitnessType = "MENSTRUATION"
	Nutrition            FitnessType = "NUTRITION"
	Hydration            FitnessType = "HYDRATION"
	Sleep                FitnessType = "SLEEP"
	HeartRate            FitnessType = "HEART_RATE"
	BloodPressure        FitnessType = "BLOOD_PRESSURE"
	BloodGlucose         FitnessType = "BLOOD_GLUCOSE"
	OxygenSaturation     FitnessType = "OXYGEN_SATURATION"
	RespiratoryRate      FitnessType = "RESPIRATORY_RATE"
	BodyTemperature      FitnessType = "BODY_TEMPERATURE"
)

// Category groups fitness types for display. Every fitness type belongs to
// exactly one category.
type Category string

const (
	CategoryActivity         Category = "ACTIVITY"
	CategoryBodyMeasurements Category = "BODY_MEASUREMENTS"
	CategoryCycleTracking    Category = "CYCLE_TRACKING"
	CategoryNutrition        Category = "NUTRITION"
	CategorySleep            Category = "SLEEP"
	CategoryVitals           Category = "VITALS"
)

// categoryTypes is the static partition of fitness types into categories.
var categoryTypes = map[Category][]FitnessType{
	CategoryActivity:         {Steps, Distance, Exercise, ActiveCaloriesBurned, FloorsClimbed},
	CategoryBodyMeasurements: {Weight, Height, BodyFat},
	CategoryCycleTracking:    {Menstruation},
	CategoryNutrition:        {Nutrition, Hydration},
	CategorySleep:            {Sleep},
	CategoryVitals:           {HeartRate, BloodPressure, BloodGlucose, OxygenSaturation, RespiratoryRate, BodyTemperature},
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryActivity,
		CategoryBodyMeasurements,
		CategoryCycleTracking,
		CategoryNutrition,
		CategorySleep,
		CategoryVitals,
	}
}

// TypesInCategory returns the fitness types belonging to c, in display order.
func TypesInCategory(c Category) []FitnessType {
	types := categoryTypes[c]
	out := make([]FitnessType, len(types))
	copy(out, types)
	return out
}

// AllFitnessTypes returns every fitness type, grouped by category order.
func AllFitnessTypes() []FitnessType {
	var out []FitnessType
	for _, c := range Categories() {
		out = append(out, categoryTypes[c]...)
	}
	return out
}

// CategoryOf returns the category t belongs to. The bool is false for
// unknown types.
func CategoryOf(t FitnessType) (Category, bool) {
	for c, types := range categoryTypes {
		for _, ct := range types {
			if ct == t {
				return c, true
			}
		}
	}
	return "", false
}

// Valid reports whether t is one of the declared fitness types.
func (t FitnessType) Valid() bool {
	_, ok := CategoryOf(t)
	return ok
}

// ReadPermission returns the permission string granting read access to t.
func (t FitnessType) ReadPermission() string { return "health.READ_" + string(t) }

// WritePermission returns the permission string granting write access to t.
func (t FitnessType) WritePermission() string { return "health.WRITE_" + string(t) }
