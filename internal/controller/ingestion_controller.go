package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/serverutils"
	"github.com/ssmubc/Empathetic-Communication/internal/service"
)

type IIngestionController interface {
	RegisterRoutes(r fiber.Router)
	FileEvent(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
	Sweep(ctx *fiber.Ctx) error
	PatientFiles(ctx *fiber.Ctx) error
}

type ingestionController struct {
	ingestionService service.IIngestionService
	watchdogService  service.IWatchdogService
}

func NewIngestionController(ingestionService service.IIngestionService, watchdogService service.IWatchdogService) IIngestionController {
	return &ingestionController{
		ingestionService: ingestionService,
		watchdogService:  watchdogService,
	}
}

func (c *ingestionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingestion/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("event", c.FileEvent)
	h.Post("retry", c.Retry)
	h.Post("sweep", c.Sweep)
	h.Get("patient/:patient_id/files", c.PatientFiles)
}

func (c *ingestionController) FileEvent(ctx *fiber.Ctx) error {
	var req dto.FileEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.HandleFileEvent(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle file event", res))
}

func (c *ingestionController) Retry(ctx *fiber.Ctx) error {
	var req dto.RetryIngestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.Retry(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue ingestion retry", res))
}

func (c *ingestionController) Sweep(ctx *fiber.Ctx) error {
	res, err := c.watchdogService.Sweep(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sweep stalled ingestions", res))
}

func (c *ingestionController) PatientFiles(ctx *fiber.Ctx) error {
	patientId, err := uuid.Parse(ctx.Params("patient_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid patient id")
	}

	res, err := c.ingestionService.ListPatientFiles(ctx.UserContext(), patientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list patient files", res))
}
