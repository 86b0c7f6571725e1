package controllers

import (
	"net/http"

	"PlantKeeper/middlewares"
	"PlantKeeper/models"
	"PlantKeeper/repositories"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	store repositories.Store
}

func NewNotificationController(store repositories.Store) *NotificationController {
	return &NotificationController{store: store}
}

// settingsResponse never includes the push provider token; it is
// write-only through this API.
type settingsResponse struct {
	EmailEnabled bool   `json:"emailEnabled"`
	PushEnabled  bool   `json:"pushEnabled"`
	Email        string `json:"email"`
	ReminderHour int    `json:"reminderHour"`
	HasPushToken bool   `json:"hasPushToken"`
}

func (nc *NotificationController) Get(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	settings, err := nc.store.Notifications().Get(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if settings == nil {
		return c.JSON(http.StatusOK, settingsResponse{ReminderHour: 9})
	}

	return c.JSON(http.StatusOK, settingsResponse{
		EmailEnabled: settings.EmailEnabled,
		PushEnabled:  settings.PushEnabled,
		Email:        settings.Email,
		ReminderHour: settings.ReminderHour,
		HasPushToken: settings.PushAPIToken != "",
	})
}

func (nc *NotificationController) Update(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	var req struct {
		EmailEnabled bool    `json:"emailEnabled"`
		PushEnabled  bool    `json:"pushEnabled"`
		Email        string  `json:"email"`
		ReminderHour int     `json:"reminderHour"`
		PushAPIToken *string `json:"pushApiToken"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ReminderHour < 0 || req.ReminderHour > 23 {
		return echo.NewHTTPError(http.StatusBadRequest, "reminderHour must be between 0 and 23")
	}

	ctx := c.Request().Context()
	existing, err := nc.store.Notifications().Get(ctx, user.ID)
	if err != nil {
		return err
	}

	settings := &models.NotificationSettings{
		UserID:       user.ID,
		EmailEnabled: req.EmailEnabled,
		PushEnabled:  req.PushEnabled,
		Email:        req.Email,
		ReminderHour: req.ReminderHour,
	}
	if existing != nil {
		settings.PushAPIToken = existing.PushAPIToken
	}
	if req.PushAPIToken != nil {
		settings.PushAPIToken = *req.PushAPIToken
	}

	if err := nc.store.Notifications().Upsert(ctx, settings); err != nil {
		return err
	}
	return nc.Get(c)
}
