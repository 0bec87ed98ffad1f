package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/service"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

// ErrorResponse maps usecase errors onto the error envelope. Anything not
// recognised is reported as a bare 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var (
		formErr  *util.FormError
		parseErr *usecase.ParseError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &formErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
			Details: formErr.Errors,
		}, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: err.Error(),
		}, err)
	case errors.Is(err, usecase.ErrNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "resource not found",
		}, err)
	case errors.Is(err, service.ErrFileTooLarge):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: service.ErrFileTooLarge.Error(),
		}, err)
	case errors.Is(err, extractor.ErrUnsupportedFile):
		return unprocessable(c, extractor.ErrUnsupportedFile, err)
	case errors.Is(err, extractor.ErrUnreadableFile):
		return unprocessable(c, extractor.ErrUnreadableFile, err)
	case errors.Is(err, extractor.ErrNoText):
		return unprocessable(c, extractor.ErrNoText, err)
	case errors.As(err, &parseErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: parseErr.Error(),
			Details: fiber.Map{"raw": parseErr.Raw},
		}, err)
	case errors.Is(err, service.ErrUnavailable):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: "inference service unavailable",
		}, err)
	case errors.As(err, &fiberErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiberErr.Code,
			Message: fiberErr.Message,
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: "internal server error",
		}, err)
	}
}

func unprocessable(c *fiber.Ctx, sentinel, err error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusUnprocessableEntity,
		Message: sentinel.Error(),
	}, err)
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(name, c.Params(name))
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, util.NewFormError("invalid identifier", map[string]string{
			field: fmt.Sprintf("%q is not a valid uuid", raw),
		})
	}
	return id, nil
}

func optionalUUID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pageFromQuery(c *fiber.Ctx) repository.Page {
	return repository.Page{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("page_size", 20),
	}.Normalize()
}

func bodyParser(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
