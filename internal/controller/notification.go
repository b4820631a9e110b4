package controller

import (
	"log/slog"
	"net/http"

	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type notificationRoutesHandler struct {
	notificationService service.Notification
	validate            *validator.Validate
	logger              *slog.Logger
}

func newNotificationRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, logger *slog.Logger) *notificationRoutesHandler {
	h := &notificationRoutesHandler{notificationService: services.Notification, validate: v, logger: logger}

	outer.GET("/notifications", h.GetNotifications)
	outer.PUT("/notifications/:notificationId/read", h.MarkNotificationRead)

	return h
}

type getNotificationsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=100"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

func newGetNotificationsInput() getNotificationsInput {
	return getNotificationsInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /notifications
func (h *notificationRoutesHandler) GetNotifications(c echo.Context) error {
	var input = newGetNotificationsInput()
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	notifications, err := h.notificationService.GetUserNotifications(c.Request().Context(), currentUser(c), pg)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, notifications); e != nil {
		return e
	}

	return nil
}

// /notifications/:notificationId/read
func (h *notificationRoutesHandler) MarkNotificationRead(c echo.Context) error {
	notificationId, ok, err := pathId(c, "notificationId")
	if !ok {
		return err
	}

	if err := h.notificationService.MarkNotificationRead(c.Request().Context(), notificationId, currentUser(c)); err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.NoContent(http.StatusNoContent); e != nil {
		return e
	}

	return nil
}
