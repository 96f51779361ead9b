package deletion

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthgate/healthgate/internal/domain/permtype"
	"github.com/healthgate/healthgate/internal/domain/selection"
	"github.com/healthgate/healthgate/internal/platform/auth"
)

type Handler struct {
	svc *Service

	// picks is the in-progress selection the deletion screen builds up
	// before committing a by-type run. Keyed by permission type name.
	picks *selection.Set[string]
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, picks: selection.New[string]()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("user"))
	g.POST("/deletion", h.StartDeletion)
	g.GET("/deletion/progress", h.GetProgress)
	g.GET("/deletion/selection", h.GetSelection)
	g.PUT("/deletion/selection", h.ReplaceSelection)
	g.POST("/deletion/selection/toggle", h.ToggleSelection)
	g.POST("/deletion/selection/all", h.SelectAllTypes)
	g.DELETE("/deletion/selection", h.ClearSelection)
}

// startRequest is the wire form of a deletion intent; Kind selects the
// variant and the remaining fields fill it in.
type startRequest struct {
	Kind            string    `json:"kind"`
	PermissionTypes []string  `json:"permission_types,omitempty"`
	Total           int       `json:"total,omitempty"`
	PackageName     string    `json:"package_name,omitempty"`
	AppName         string    `json:"app_name,omitempty"`
	EntryIDs        []EntryID `json:"entry_ids,omitempty"`
	Period          Period    `json:"period,omitempty"`
	StartTime       time.Time `json:"start_time,omitempty"`
}

func (r *startRequest) toType() (Type, error) {
	parseTypes := func() ([]permtype.PermissionType, error) {
		types := make([]permtype.PermissionType, 0, len(r.PermissionTypes))
		for _, name := range r.PermissionTypes {
			t, err := permtype.Parse(name)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		return types, nil
	}

	switch r.Kind {
	case "permission_types":
		types, err := parseTypes()
		if err != nil {
			return nil, err
		}
		return PermissionTypes{Types: types, Total: r.Total}, nil
	case "permission_types_from_app":
		types, err := parseTypes()
		if err != nil {
			return nil, err
		}
		if r.PackageName == "" {
			return nil, fmt.Errorf("package_name is required")
		}
		return PermissionTypesFromApp{
			Types: types, Total: r.Total,
			PackageName: r.PackageName, AppName: r.AppName,
		}, nil
	case "entries":
		return Entries{IDs: r.EntryIDs, Period: r.Period, StartTime: r.StartTime, Total: r.Total}, nil
	case "entries_from_app":
		if r.PackageName == "" {
			return nil, fmt.Errorf("package_name is required")
		}
		return EntriesFromApp{
			IDs: r.EntryIDs, Period: r.Period, StartTime: r.StartTime, Total: r.Total,
			PackageName: r.PackageName, AppName: r.AppName,
		}, nil
	case "app_data":
		if r.PackageName == "" {
			return nil, fmt.Errorf("package_name is required")
		}
		return AppData{PackageName: r.PackageName, AppName: r.AppName}, nil
	case "all_data":
		return AllData{}, nil
	default:
		return nil, fmt.Errorf("unknown deletion kind %q", r.Kind)
	}
}

type startResponse struct {
	RunID uuid.UUID `json:"run_id"`
}

// StartDeletion validates the request and starts a background deletion run.
// Progress is observed through GET /deletion/progress. A by-type request
// with no explicit types commits the current selection instead.
func (h *Handler) StartDeletion(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fromSelection := req.Kind == "permission_types" &&
		len(req.PermissionTypes) == 0 && h.picks.Len() > 0
	if fromSelection {
		req.PermissionTypes = h.orderedSelection()
		req.Total = len(catalogTypeNames())
	}

	dt, err := req.toType()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	runID, err := h.svc.Begin(dt)
	if err != nil {
		if errors.Is(err, ErrRunInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if fromSelection {
		h.picks.Clear()
	}
	return c.JSON(http.StatusAccepted, startResponse{RunID: runID})
}

// GetProgress returns the latest progress update. A subscriber arriving
// after the run finished still sees the final state.
func (h *Handler) GetProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Progress().Latest())
}

// selectionResponse lists the ticked permission types in catalog order.
// Total is the size of the selectable universe, not the tick count.
type selectionResponse struct {
	Selected    []string `json:"selected"`
	Total       int      `json:"total"`
	AllSelected bool     `json:"all_selected"`
}

func (h *Handler) selectionSnapshot() selectionResponse {
	catalog := catalogTypeNames()
	selected := h.orderedSelection()
	return selectionResponse{
		Selected:    selected,
		Total:       len(catalog),
		AllSelected: len(selected) == len(catalog),
	}
}

func (h *Handler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.selectionSnapshot())
}

// ReplaceSelection swaps the selection wholesale. An empty list leaves the
// selection untouched; Clear is the explicit deselect-everything action.
func (h *Handler) ReplaceSelection(c echo.Context) error {
	var req struct {
		PermissionTypes []string `json:"permission_types"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	names := make([]string, 0, len(req.PermissionTypes))
	for _, raw := range req.PermissionTypes {
		t, err := permtype.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		names = append(names, t.String())
	}
	h.picks.ReplaceAll(names)
	return c.JSON(http.StatusOK, h.selectionSnapshot())
}

func (h *Handler) ToggleSelection(c echo.Context) error {
	var req struct {
		PermissionType string `json:"permission_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := permtype.Parse(req.PermissionType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.picks.Toggle(t.String())
	return c.JSON(http.StatusOK, h.selectionSnapshot())
}

func (h *Handler) SelectAllTypes(c echo.Context) error {
	h.picks.SelectAll(catalogTypeNames())
	return c.JSON(http.StatusOK, h.selectionSnapshot())
}

func (h *Handler) ClearSelection(c echo.Context) error {
	h.picks.Clear()
	return c.JSON(http.StatusOK, h.selectionSnapshot())
}

// catalogTypeNames returns every selectable permission type name, fitness
// first, in display order.
func catalogTypeNames() []string {
	var names []string
	for _, ft := range permtype.AllFitnessTypes() {
		names = append(names, ft.String())
	}
	for _, mt := range permtype.AllMedicalTypes() {
		names = append(names, mt.String())
	}
	return names
}

// orderedSelection projects the unordered set onto catalog order so the
// committed request is deterministic.
func (h *Handler) orderedSelection() []string {
	var out []string
	for _, name := range catalogTypeNames() {
		if h.picks.IsSelected(name) {
			out = append(out, name)
		}
	}
	return out
}
