package controllers

import (
	"net/http"
	"time"

	"PlantKeeper/middlewares"
	"PlantKeeper/models"
	"PlantKeeper/repositories"

	"github.com/labstack/echo/v4"
)

// CareController serves the health-observation and care-activity log for a
// plant.
type CareController struct {
	store repositories.Store
}

func NewCareController(store repositories.Store) *CareController {
	return &CareController{store: store}
}

func (cc *CareController) ListHealth(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	plantID, err := pathID(c)
	if err != nil {
		return err
	}

	records, err := cc.store.Health().GetForPlant(c.Request().Context(), user.ID, plantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (cc *CareController) CreateHealth(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	plantID, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := cc.store.Plants().GetByID(c.Request().Context(), user.ID, plantID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	record := &models.HealthRecord{
		UserID:     user.ID,
		PlantID:    plantID,
		ObservedAt: time.Now(),
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if err := cc.store.Health().Create(c.Request().Context(), record); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

func (cc *CareController) ListCare(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	plantID, err := pathID(c)
	if err != nil {
		return err
	}

	activities, err := cc.store.Care().GetForPlant(c.Request().Context(), user.ID, plantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activities)
}

func (cc *CareController) CreateCare(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	plantID, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := cc.store.Plants().GetByID(c.Request().Context(), user.ID, plantID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}

	var req struct {
		Type  string `json:"type"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type is required")
	}

	activity := &models.CareActivity{
		UserID:      user.ID,
		PlantID:     plantID,
		Type:        req.Type,
		PerformedAt: time.Now(),
		Notes:       req.Notes,
	}
	if err := cc.store.Care().Create(c.Request().Context(), activity); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, activity)
}
