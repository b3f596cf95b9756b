package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
	"github.com/duty-pharmacy/internal/pkg/utils"
	"github.com/duty-pharmacy/internal/pkg/validator"
	"github.com/duty-pharmacy/internal/usecase"
	"github.com/duty-pharmacy/internal/usecase/dto"
)

// SelectionHandler exposes the engine state and its transitions to the UI.
type SelectionHandler struct {
	selectionUC *usecase.SelectionUseCase
	directoryUC *usecase.DirectoryUseCase
	platform    string
	logger      *zap.Logger
}

func NewSelectionHandler(
	selectionUC *usecase.SelectionUseCase,
	directoryUC *usecase.DirectoryUseCase,
	platform string,
	logger *zap.Logger,
) *SelectionHandler {
	return &SelectionHandler{
		selectionUC: selectionUC,
		directoryUC: directoryUC,
		platform:    platform,
		logger:      logger,
	}
}

// GetState returns the current selection snapshot.
func (h *SelectionHandler) GetState(c *fiber.Ctx) error {
	snap := h.selectionUC.Snapshot()
	return utils.SendSuccess(c, snap, &utils.Meta{Total: len(snap.Results)})
}

// ListCities returns the city directory.
func (h *SelectionHandler) ListCities(c *fiber.Ctx) error {
	cities, err := h.directoryUC.ListCities(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, cities, &utils.Meta{Total: len(cities)})
}

// ListDistricts returns the districts for a city id.
func (h *SelectionHandler) ListDistricts(c *fiber.Ctx) error {
	cityID, err := c.ParamsInt("id")
	if err != nil || cityID <= 0 {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	districts, err := h.directoryUC.ListDistricts(c.Context(), cityID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, districts, &utils.Meta{Total: len(districts)})
}

// PickCity applies a manual city selection and returns the new snapshot.
func (h *SelectionHandler) PickCity(c *fiber.Ctx) error {
	var req dto.PickCityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	h.selectionUC.PickCity(c.Context(), domain.Region{ID: req.ID, Name: req.Name})
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// PickDistrict applies a manual district selection.
func (h *SelectionHandler) PickDistrict(c *fiber.Ctx) error {
	var req dto.PickDistrictRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	if err := h.selectionUC.PickDistrict(c.Context(), req.Name); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// SwitchTab switches between the all and favorites tabs. No network fetch
// happens here.
func (h *SelectionHandler) SwitchTab(c *fiber.Ctx) error {
	var req dto.SwitchTabRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	h.selectionUC.SwitchTab(domain.Tab(req.Tab))
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// SetSearch updates the favorites search filter.
func (h *SelectionHandler) SetSearch(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	h.selectionUC.SetSearchQuery(req.Query)
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// ToggleView flips between list and map.
func (h *SelectionHandler) ToggleView(c *fiber.Ctx) error {
	mode := h.selectionUC.ToggleViewMode()
	return utils.SendSuccess(c, dto.ViewModeResponse{ViewMode: string(mode)}, nil)
}

// Focus focuses a pharmacy from the visible result set.
func (h *SelectionHandler) Focus(c *fiber.Ctx) error {
	var req dto.FocusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	if err := h.selectionUC.FocusPharmacy(req.Name); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// DismissFocus clears the focused pharmacy.
func (h *SelectionHandler) DismissFocus(c *fiber.Ctx) error {
	h.selectionUC.DismissFocus()
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// ToggleFavorite flips favorite membership for a visible pharmacy. A
// persistence failure is reported but the toggle itself stands for the
// session.
func (h *SelectionHandler) ToggleFavorite(c *fiber.Ctx) error {
	var req dto.ToggleFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	err := h.selectionUC.ToggleFavorite(c.Context(), req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrPersistenceFailed) {
		return utils.SendError(c, err)
	}
	if err != nil {
		h.logger.Warn("Favorite kept for session only", zap.String("name", req.Name))
	}
	return utils.SendSuccess(c, h.selectionUC.Snapshot(), nil)
}

// Launch returns the dialer and navigator URLs for a focused or visible
// pharmacy.
func (h *SelectionHandler) Launch(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	snap := h.selectionUC.Snapshot()
	for _, p := range snap.Results {
		if p.Name == name {
			return utils.SendSuccess(c, dto.LaunchResponse{
				Dial:     utils.DialURL(p.Phone),
				Navigate: utils.NavigateURL(h.platform, p.Latitude, p.Longitude),
			}, nil)
		}
	}
	return utils.SendError(c, apperrors.ErrPharmacyNotInResults)
}
