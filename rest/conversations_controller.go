package rest

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	workhive "github.com/workhive/workhive"
)

// ConversationsController proxies the caller's conversation feed from the
// messaging service. The marketplace API stays the single origin the client
// talks to; the bearer credential is forwarded as-is so the downstream
// service makes its own authorization decision.
type ConversationsController struct {
	Logger Logger

	// MessagingURL is the downstream base, e.g. http://messaging:4001
	MessagingURL string

	// Timeout for the downstream call, zero means fiber's default
	Timeout int
}

func NewConversationsController(messagingURL string, logger Logger) *ConversationsController {
	if logger == nil {
		panic("Missing Logger in conversations controller...")
	}

	return &ConversationsController{
		Logger:       logger,
		MessagingURL: strings.TrimRight(messagingURL, "/"),
	}
}

// RegisterRoutes mounts the proxy endpoints. The guard runs before these, so
// an unauthenticated request is rejected here and never reaches downstream.
func (cc *ConversationsController) RegisterRoutes(app fiber.Router) {
	app.Get("/conversations", cc.List)
	app.Get("/conversations/unread-count", cc.UnreadCount)
}

// List forwards GET /conversations downstream with the caller's credential
func (cc *ConversationsController) List(c *fiber.Ctx) error {
	return cc.forward(c, "/conversations")
}

// UnreadCount forwards the unread-count lookup used by the navigation badge
func (cc *ConversationsController) UnreadCount(c *fiber.Ctx) error {
	return cc.forward(c, "/conversations/unread-count")
}

func (cc *ConversationsController) forward(c *fiber.Ctx, path string) error {
	authorization := c.Get(fiber.HeaderAuthorization)
	if authorization == "" {
		return RenderError(c, cc.Logger, workhive.ErrAuthenticationRequired)
	}

	url := cc.MessagingURL + path
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		url += "?" + qs
	}

	agent := fiber.Get(url)
	agent.Set(fiber.HeaderAuthorization, authorization)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		cc.Logger.Error("messaging service unreachable", "error", errs[0], "url", url)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "messaging service unavailable",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}
