package controllers

import (
	"net/http"
	"strconv"
	"time"

	"PlantKeeper/middlewares"
	"PlantKeeper/models"
	"PlantKeeper/repositories"

	"github.com/labstack/echo/v4"
)

type PlantController struct {
	store repositories.Store
}

func NewPlantController(store repositories.Store) *PlantController {
	return &PlantController{store: store}
}

type plantRequest struct {
	Name                  string `json:"name"`
	Species               string `json:"species"`
	LocationID            uint   `json:"locationId"`
	WateringFrequencyDays int    `json:"wateringFrequencyDays"`
	Notes                 string `json:"notes"`
}

func (pc *PlantController) List(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	plants, err := pc.store.Plants().GetAll(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plants)
}

func (pc *PlantController) Get(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	plant, err := pc.store.Plants().GetByID(c.Request().Context(), user.ID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}
	return c.JSON(http.StatusOK, plant)
}

func (pc *PlantController) Create(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	var req plantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	plant := &models.Plant{
		UserID:                user.ID,
		Name:                  req.Name,
		Species:               req.Species,
		LocationID:            req.LocationID,
		WateringFrequencyDays: req.WateringFrequencyDays,
		Notes:                 req.Notes,
	}
	if err := pc.store.Plants().Create(c.Request().Context(), plant); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, plant)
}

func (pc *PlantController) Update(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	plant, err := pc.store.Plants().GetByID(c.Request().Context(), user.ID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}

	var req plantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	plant.Name = req.Name
	plant.Species = req.Species
	plant.LocationID = req.LocationID
	plant.WateringFrequencyDays = req.WateringFrequencyDays
	plant.Notes = req.Notes
	if err := pc.store.Plants().Update(c.Request().Context(), plant); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plant)
}

func (pc *PlantController) Delete(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := pc.store.Plants().Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Water records a watering event and stamps the plant's last-watered time.
func (pc *PlantController) Water(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var plant *models.Plant
	err = pc.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		plant, err = tx.Plants().GetByID(ctx, user.ID, id)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "plant not found")
		}

		now := time.Now()
		plant.LastWateredAt = &now
		if err := tx.Plants().Update(ctx, plant); err != nil {
			return err
		}
		return tx.Watering().Create(ctx, &models.WateringEvent{
			UserID:    user.ID,
			PlantID:   plant.ID,
			WateredAt: now,
		})
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plant)
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
