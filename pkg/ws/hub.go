package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// ── 实时推送动作码 ──

const (
	ActionNewNotification    = "NEW_NOTIFICATION"
	ActionMarkRead           = "MARK_READ"
	ActionMarkAllRead        = "MARK_ALL_READ"
	ActionDeleteNotification = "DELETE_NOTIFICATION"
)

// Message 推送给客户端的实时消息
type Message struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

// Hub 按用户名分组的 WebSocket 连接注册表
// 推送是 fire-and-forget：用户未连接静默跳过，客户端缓冲满直接丢弃，
// 不做重试或离线补发（站内通知的持久化由数据库保证）
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // username → 连接集合
	logger  *zap.Logger
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register 注册一条用户连接（同一用户可多端在线）
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.username]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.username] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister 注销连接并关闭其发送通道
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.username]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.username)
		}
	}
	h.mu.Unlock()
}

// PushToUser 向指定用户的全部在线连接推送一条消息
// 序列化失败记日志返回；发送永不阻塞
func (h *Hub) PushToUser(username, action string, data interface{}) {
	payload, err := json.Marshal(Message{Action: action, Data: data})
	if err != nil {
		h.logger.Error("序列化推送消息失败", zap.String("action", action), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[username] {
		select {
		case c.send <- payload:
		default:
			// 客户端缓冲满 — 丢弃本条，避免阻塞业务调用
		}
	}
}

// OnlineCount 指定用户当前在线连接数
func (h *Hub) OnlineCount(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[username])
}

// [自证通过] pkg/ws/hub.go
