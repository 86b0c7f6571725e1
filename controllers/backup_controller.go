package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"PlantKeeper/middlewares"
	"PlantKeeper/services/backup"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Uploads are spooled into memory; the pipeline enforces its own
// decompression bounds on top of this raw cap.
const maxUploadBytes = 50 << 20

type BackupController struct {
	backupService *backup.Service
}

func NewBackupController(backupService *backup.Service) *BackupController {
	if backupService == nil {
		panic("backup service cannot be nil")
	}
	return &BackupController{backupService: backupService}
}

// Export streams the user's account as a zip attachment.
func (bc *BackupController) Export(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	data, err := bc.backupService.Export(c.Request().Context(), user.ID)
	if err != nil {
		logrus.WithField("user", user.ID).Error("Export failed: ", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "error building backup")
	}
	exportsCounter.Inc()

	filename := fmt.Sprintf("plantkeeper-backup-%s.zip", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/zip", data)
}

// Import restores an uploaded archive. Replace mode is destructive, so it
// is gated here on an explicit confirm=true before the pipeline ever runs.
func (bc *BackupController) Import(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	mode, err := backup.ParseMode(c.QueryParam("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if mode == backup.ModeReplace && c.QueryParam("confirm") != "true" {
		return echo.NewHTTPError(http.StatusBadRequest, "replace mode deletes existing data and requires confirm=true")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "backup file is required in 'file' field")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "backup file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read backup file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read backup file")
	}
	if len(data) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "backup file too large")
	}

	summary, err := bc.backupService.Import(c.Request().Context(), data, mode, user.ID)
	if err != nil {
		var archiveErr *backup.ArchiveError
		var validationErr *backup.ValidationError
		if errors.As(err, &archiveErr) || errors.As(err, &validationErr) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		logrus.WithField("user", user.ID).Error("Import failed: ", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "error restoring backup")
	}

	importsCounter.Inc()
	importWarningsCounter.Add(float64(len(summary.Warnings)))
	return c.JSON(http.StatusOK, summary)
}
