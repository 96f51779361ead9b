// Package deletion resolves a user's selective-deletion request into the
// correct store delete calls, split across the fitness and medical record
// domains, and drives the progress lifecycle the UI observes.
package deletion

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// Domain names one of the two record stores a deletion can touch.
type Domain string

const (
	DomainFitness Domain = "fitness"
	DomainMedical Domain = "medical"
)

// Period is the navigation time window the entries screen was showing when
// the user made the selection. Carried for confirmation-dialog copy only.
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
)

// EntryID identifies one stored record together with the domain that holds it.
type EntryID struct {
	ID     uuid.UUID `json:"id"`
	Domain Domain    `json:"domain"`
}

// Type is the closed set of deletion intents. A request is pure data: it
// says what the user asked to delete, never how. Variants carrying a Total
// keep the original count of available items so confirmation copy can phrase
// "some" vs "all" without re-querying.
type Type interface {
	isDeletionType()
}

// PermissionTypes deletes all data of the selected permission types.
type PermissionTypes struct {
	Types []permtype.PermissionType `json:"types"`
	Total int                       `json:"total"`
}

// PermissionTypesFromApp deletes data of the selected permission types
// written by one app.
type PermissionTypesFromApp struct {
	Types       []permtype.PermissionType `json:"types"`
	Total       int                       `json:"total"`
	PackageName string                    `json:"package_name"`
	AppName     string                    `json:"app_name"`
}

// Entries deletes individually selected records.
type Entries struct {
	IDs       []EntryID `json:"ids"`
	Period    Period    `json:"period"`
	StartTime time.Time `json:"start_time"`
	Total     int       `json:"total"`
}

// EntriesFromApp deletes individually selected records from one app's view.
type EntriesFromApp struct {
	IDs         []EntryID `json:"ids"`
	Period      Period    `json:"period"`
	StartTime   time.Time `json:"start_time"`
	Total       int       `json:"total"`
	PackageName string    `json:"package_name"`
	AppName     string    `json:"app_name"`
}

// AppData deletes everything one app has written, in both domains.
type AppData struct {
	PackageName string `json:"package_name"`
	AppName     string `json:"app_name"`
}

// AllData deletes every record in the store.
type AllData struct{}

func (PermissionTypes) isDeletionType()        {}
func (PermissionTypesFromApp) isDeletionType() {}
func (Entries) isDeletionType()                {}
func (EntriesFromApp) isDeletionType()         {}
func (AppData) isDeletionType()                {}
func (AllData) isDeletionType()                {}

// AllSelected reports whether the user selected everything available,
// driving "delete all" vs "delete selected" confirmation copy.
func (t PermissionTypes) AllSelected() bool        { return len(t.Types) >= t.Total }
func (t PermissionTypesFromApp) AllSelected() bool { return len(t.Types) >= t.Total }
func (t Entries) AllSelected() bool                { return len(t.IDs) >= t.Total }
func (t EntriesFromApp) AllSelected() bool         { return len(t.IDs) >= t.Total }

// Validate checks the selected-count-never-exceeds-total invariant for the
// counted variants. The app- and all-data variants have nothing to check.
func Validate(t Type) error {
	var selected, total int
	switch r := t.(type) {
	case PermissionTypes:
		selected, total = len(r.Types), r.Total
	case PermissionTypesFromApp:
		selected, total = len(r.Types), r.Total
	case Entries:
		selected, total = len(r.IDs), r.Total
	case EntriesFromApp:
		selected, total = len(r.IDs), r.Total
	case AppData, AllData:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedRequest, t)
	}
	if selected > total {
		return fmt.Errorf("selected %d items but only %d available", selected, total)
	}
	return nil
}
