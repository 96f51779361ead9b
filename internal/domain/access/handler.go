package access

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthgate/healthgate/internal/domain/permtype"
	"github.com/healthgate/healthgate/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("user"))
	read.GET("/permission-types", h.ListPermissionTypes)
	read.GET("/data-access/:type", h.GetDataAccess)
}

type categoryTypes struct {
	Category permtype.Category      `json:"category"`
	Types    []permtype.FitnessType `json:"types"`
}

type permissionTypeCatalog struct {
	Fitness []categoryTypes       `json:"fitness"`
	Medical []permtype.MedicalType `json:"medical"`
}

// ListPermissionTypes returns the full catalog of selectable permission
// types, grouped by category, for the UI to build its screens from.
func (h *Handler) ListPermissionTypes(c echo.Context) error {
	catalog := permissionTypeCatalog{Medical: permtype.AllMedicalTypes()}
	for _, cat := range permtype.Categories() {
		catalog.Fitness = append(catalog.Fitness, categoryTypes{
			Category: cat,
			Types:    permtype.TypesInCategory(cat),
		})
	}
	return c.JSON(http.StatusOK, catalog)
}

type dataAccessResponse struct {
	PermissionType string `json:"permission_type"`
	*Result
}

// GetDataAccess classifies app access for one permission type.
func (h *Handler) GetDataAccess(c echo.Context) error {
	t, err := permtype.Parse(c.Param("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Classify(c.Request().Context(), t)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "classification failed")
	}
	return c.JSON(http.StatusOK, dataAccessResponse{
		PermissionType: t.String(),
		Result:         result,
	})
}
