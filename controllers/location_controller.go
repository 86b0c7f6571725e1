package controllers

import (
	"net/http"

	"PlantKeeper/middlewares"
	"PlantKeeper/models"
	"PlantKeeper/repositories"

	"github.com/labstack/echo/v4"
)

type LocationController struct {
	store repositories.Store
}

func NewLocationController(store repositories.Store) *LocationController {
	return &LocationController{store: store}
}

func (lc *LocationController) List(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	locations, err := lc.store.Locations().GetAll(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locations)
}

func (lc *LocationController) Create(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	existing, err := lc.store.Locations().FindByName(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "location already exists")
	}

	location := &models.Location{UserID: user.ID, Name: req.Name}
	if err := lc.store.Locations().Create(c.Request().Context(), location); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, location)
}

// Delete removes a location. Default locations are kept: the repository
// delete is scoped to non-default rows.
func (lc *LocationController) Delete(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := lc.store.Locations().Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
