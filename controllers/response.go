package controllers

import (
	"errors"
	"strings"

	"fulfillment-wms/wms/errs"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	validate = validator.New()
	log      = zap.NewNop()
)

// internalErrorMessage is all a client sees of an unexpected failure. The
// cause goes to the log.
const internalErrorMessage = "internal server error"

// SetLogger sets where unexpected handler errors are logged.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

func respondInternal(ctx *fiber.Ctx, err error) error {
	log.Error("request failed",
		zap.String("method", ctx.Method()),
		zap.String("path", ctx.Path()),
		zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": internalErrorMessage})
}

// statusFor maps a domain error kind onto an HTTP status.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.NotFound:
		return fiber.StatusNotFound
	case errs.InvalidArgument:
		return fiber.StatusBadRequest
	case errs.InvalidTransition, errs.PickerBusy, errs.ListNotAvailable, errs.NotReady,
		errs.AlreadyDecided, errs.AlreadyLabeled, errs.AlreadyHandedOver, errs.AlreadyFulfilled,
		errs.PickingIncomplete, errs.RequisitionNotApproved, errs.PackageNotVerified, errs.NoPackagesReady:
		return fiber.StatusConflict
	case errs.InsufficientStock, errs.NoSpace, errs.NoEligibleSupplier:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(ctx *fiber.Ctx, err error) error {
	var domainErr *errs.Error
	if !errors.As(err, &domainErr) {
		return respondInternal(ctx, err)
	}
	status := statusFor(domainErr.Kind)
	if status == fiber.StatusInternalServerError {
		return respondInternal(ctx, err)
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   domainErr.Error(),
		"kind":    domainErr.Kind.String(),
	})
}

// ErrorHandler is the fiber fallback for errors handlers return instead of
// writing a response themselves, recovered panics included.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(fiber.Map{"success": false, "error": fe.Message})
	}
	return respondError(ctx, err)
}

func respondOK(ctx *fiber.Ctx, status int, message string, data any) error {
	return ctx.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

// bind parses the request body into dst and runs its validate tags.
// Failures come back as INVALID_ARGUMENT so handlers can pass them to
// respondError.
func bind(ctx *fiber.Ctx, dst any) error {
	if err := ctx.BodyParser(dst); err != nil {
		return errs.NewInvalidArgument("malformed request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errs.NewInvalidArgument("%v", err)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" failed "+fe.Tag())
		}
		return errs.NewInvalidArgument("validation failed: %s", strings.Join(fields, ", "))
	}
	return nil
}
