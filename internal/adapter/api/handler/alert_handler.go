package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
	"scamwatch/pkg/utils"
)

type AlertHandler struct {
	alertUseCase *usecase.AlertUseCase
}

func NewAlertHandler(alertUseCase *usecase.AlertUseCase) *AlertHandler {
	return &AlertHandler{alertUseCase: alertUseCase}
}

func (h *AlertHandler) ListAlerts(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)
	unreadOnly := c.QueryParam("unread") == "true"

	alerts, total, err := h.alertUseCase.ListAlerts(c.Request().Context(), userID, unreadOnly, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, alerts, total, pagination.Page, pagination.PageSize)
}

func (h *AlertHandler) MarkRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.alertUseCase.MarkRead(c.Request().Context(), userID, c.Param("alertId")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"read": true})
}

func (h *AlertHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.alertUseCase.MarkAllRead(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"read": true})
}

type engagementRequest struct {
	Channel string `json:"channel" validate:"required,oneof=push email sms"`
	Event   string `json:"event" validate:"required,oneof=opened clicked"`
}

// RecordEngagement lets clients report that a delivered alert was
// opened or clicked on a channel.
func (h *AlertHandler) RecordEngagement(c echo.Context) error {
	var req engagementRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.alertUseCase.RecordEngagement(c.Request().Context(), userID, c.Param("alertId"), req.Channel, req.Event); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"recorded": true})
}
