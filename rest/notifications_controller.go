package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	workhive "github.com/workhive/workhive"
)

// NotificationsController exposes the notification inbox for the
// authenticated caller. Every handler scopes itself to the identity carried
// in the verified claims; client supplied ids never widen the result.
type NotificationsController struct {
	Logger Logger
	Repo   workhive.RepositoryManager
	Marker *workhive.MarkNotificationsReadHandler
}

func NewNotificationsController(repo workhive.RepositoryManager, logger Logger) *NotificationsController {
	if logger == nil {
		panic("Missing Logger in notifications controller...")
	}

	return &NotificationsController{
		Logger: logger,
		Repo:   repo,
		Marker: workhive.NewMarkNotificationsReadHandler(repo).WithLogger(logger),
	}
}

// RegisterRoutes mounts the inbox endpoints. The router passed in must
// already run the JWT guard; these handlers assume claims are present.
func (n *NotificationsController) RegisterRoutes(app fiber.Router) {
	app.Get("/notifications", n.List)
	app.Post("/notifications/read-all", n.ReadAll)
	app.Patch("/notifications/:id/read", n.ReadOne)
}

// List returns the caller's notifications, newest first. `?unread=true`
// narrows to pending items.
func (n *NotificationsController) List(c *fiber.Ctx) error {
	accountID, err := callerAccountID(c)
	if err != nil {
		return RenderError(c, n.Logger, err)
	}

	unreadOnly := c.QueryBool("unread", false)

	records, err := n.Repo.Notifications().ListByOwner(c.UserContext(), accountID, unreadOnly)
	if err != nil {
		n.Logger.Error("notifications list", "error", err, "account_id", accountID)
		return RenderError(c, n.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to list notifications"))
	}

	unread, err := n.Repo.Notifications().CountUnread(c.UserContext(), accountID)
	if err != nil {
		n.Logger.Error("notifications unread count", "error", err, "account_id", accountID)
		return RenderError(c, n.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to count notifications"))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": records,
		"unread_count":  unread,
	})
}

// ReadAll marks every unread notification owned by the caller as read and
// reports how many rows actually changed. A repeat call reports zero.
func (n *NotificationsController) ReadAll(c *fiber.Ctx) error {
	accountID, err := callerAccountID(c)
	if err != nil {
		return RenderError(c, n.Logger, err)
	}

	result, err := n.Marker.Execute(c.UserContext(), workhive.MarkNotificationsReadMessage{
		AccountID: accountID,
	})
	if err != nil {
		return RenderError(c, n.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "notifications marked as read",
		"updated_count": result.UpdatedCount,
	})
}

// ReadOne marks a single owned notification as read. An id the caller does
// not own is indistinguishable from one that does not exist.
func (n *NotificationsController) ReadOne(c *fiber.Ctx) error {
	accountID, err := callerAccountID(c)
	if err != nil {
		return RenderError(c, n.Logger, err)
	}

	notificationID, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return RenderError(c, n.Logger, errors.New("invalid notification id", errors.CategoryBadInput).
			WithTextCode(workhive.TextCodeValidationFailed))
	}

	result, err := n.Marker.Execute(c.UserContext(), workhive.MarkNotificationsReadMessage{
		AccountID:      accountID,
		NotificationID: notificationID,
	})
	if err != nil {
		return RenderError(c, n.Logger, err)
	}

	if result.UpdatedCount == 0 {
		return RenderError(c, n.Logger, errors.New("notification not found", errors.CategoryNotFound).
			WithTextCode(workhive.TextCodeNotFound))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "notification marked as read",
		"updated_count": result.UpdatedCount,
	})
}

// callerAccountID reads the authenticated identity placed in the request
// context by the JWT guard
func callerAccountID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := workhive.GetClaims(c.UserContext())
	if !ok {
		return uuid.Nil, workhive.ErrAuthenticationRequired
	}

	id, err := uuid.Parse(claims.AccountID())
	if err != nil {
		return uuid.Nil, workhive.ErrTokenMalformed
	}

	return id, nil
}
