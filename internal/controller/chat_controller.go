package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/serverutils"
	"github.com/ssmubc/Empathetic-Communication/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Turn(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("turn", c.Turn)
	h.Get("session/:session_id", c.History)
}

func (c *chatController) Turn(ctx *fiber.Ctx) error {
	var req dto.ChatTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Turn(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate patient turn", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.chatService.History(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session history", res))
}
