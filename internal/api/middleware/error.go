package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kaixxz/MediNote/internal/api/contract"
	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/service"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := constants.ErrCodeInvalidRequestBody
			if fiberErr.Code == fiber.StatusNotFound {
				code = constants.ErrCodeRouteNotFound
			}
			return c.Status(fiberErr.Code).JSON(contract.Response{
				Code:    code,
				Message: fiberErr.Message,
				TrackID: TrackID(c),
			})
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("track_id", TrackID(c)),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(contract.Response{
			Code:    constants.ErrCodeOperationFailed,
			Message: constants.GetErrorMessage(constants.ErrCodeOperationFailed),
			TrackID: TrackID(c),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	code := err.Code

	status := constants.GetHTTPStatus(code)
	if status == fiber.StatusInternalServerError {
		code = constants.ErrCodeOperationFailed
	}

	return c.Status(status).JSON(contract.Response{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		TrackID: TrackID(c),
	})
}
