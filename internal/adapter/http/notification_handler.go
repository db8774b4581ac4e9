package http

import (
	"net/http"

	domain "credconecta-backend/internal/domain/notification"
	"credconecta-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

type updateSettingsReq struct {
	PaymentReminders        *bool   `json:"payment_reminders"`
	OverdueAlerts           *bool   `json:"overdue_alerts"`
	NewLoanNotifications    *bool   `json:"new_loan_notifications"`
	SettlementConfirmations *bool   `json:"settlement_confirmations"`
	ContractNotifications   *bool   `json:"contract_notifications"`
	SystemAlerts            *bool   `json:"system_alerts"`
	ReminderDaysBefore      *int    `json:"reminder_days_before" validate:"omitempty,gte=0,lte=30"`
	QuietHoursStart         *string `json:"quiet_hours_start"    validate:"omitempty,datetime=15:04"`
	QuietHoursEnd           *string `json:"quiet_hours_end"      validate:"omitempty,datetime=15:04"`
	SoundEnabled            *bool   `json:"sound_enabled"`
	VibrationEnabled        *bool   `json:"vibration_enabled"`
}

func (h *NotificationHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	list, err := h.uc.List(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	n, err := h.uc.UnreadCount(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": n})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.uc.MarkRead(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.uc.MarkAllRead(c.Request().Context(), p.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) GetSettings(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	s, err := h.uc.GetSettings(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *NotificationHandler) UpdateSettings(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req updateSettingsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.UpdateSettings(c.Request().Context(), p.ID, domain.SettingsPatch(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
