package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"log/slog"

	"replayed/internal/ingest"
)

// UploadCreateAction accepts one history export file (multipart field "file")
// and runs it through the import pipeline.
func UploadCreateAction(ctx *cartridge.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.Ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing file upload",
		})
	}
	if fileHeader.Size > ingest.MaxUploadSizeBytes {
		return ctx.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "file exceeds the upload size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.Logger.Error("Failed to open uploaded file", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not read uploaded file",
		})
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		ctx.Logger.Error("Failed to read uploaded file", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not read uploaded file",
		})
	}

	result, err := ingest.Ingest(ctx.DBManager, ctx.Logger, userID, fileHeader.Filename, raw)
	if err != nil {
		var validationErr *ingest.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": validationErr.Reason,
			})
		}
		ctx.Logger.Error("Import failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("file", fileHeader.Filename),
			slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "import failed",
		})
	}

	if !result.Success {
		// Duplicate upload: no new state, report with the original timestamp.
		return ctx.Status(fiber.StatusConflict).JSON(result)
	}
	return ctx.JSON(result)
}

// UploadsIndexAction lists the user's accepted uploads, newest first.
func UploadsIndexAction(ctx *cartridge.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	uploads, err := ingest.ListUploads(ctx.DB(), userID)
	if err != nil {
		ctx.Logger.Error("Failed to list uploads", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not list uploads",
		})
	}
	return ctx.JSON(fiber.Map{"uploads": uploads})
}

// UploadDeleteAction removes one upload batch and its events.
func UploadDeleteAction(ctx *cartridge.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	batchID, err := ctx.ParamsInt("id")
	if err != nil || batchID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid batch id",
		})
	}

	deleted, err := ingest.DeleteBatchForUser(ctx.DBManager, ctx.Logger, userID, uint(batchID))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "upload not found",
		})
	}
	return ctx.JSON(fiber.Map{"success": true, "events_deleted": deleted})
}

// DataPurgeAction deletes every play event and upload batch the user owns.
func DataPurgeAction(ctx *cartridge.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	deleted, err := ingest.DeleteAllData(ctx.DBManager, ctx.Logger, userID)
	if err != nil {
		ctx.Logger.Error("Failed to purge user data",
			slog.Uint64("user_id", uint64(userID)), slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not delete data",
		})
	}
	return ctx.JSON(fiber.Map{"success": true, "events_deleted": deleted})
}
