package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"log/slog"

	"replayed/internal/stats"
)

// StatsOverviewAction computes the statistics bundle for the current user.
// Optional query params start_date and end_date ("2006-01-02") restrict the
// range; the bounds are widened to full days.
func StatsOverviewAction(ctx *cartridge.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	params, err := stats.NewQueryParams(userID, ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	overview, err := stats.ComputeOverview(ctx.DB(), ctx.Logger, params)
	if err != nil {
		ctx.Logger.Error("Failed to compute stats overview",
			slog.Uint64("user_id", uint64(userID)), slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not compute statistics",
		})
	}

	return ctx.JSON(overview)
}
