package devserver

import (
	"net/http"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/gateway/socket"
	"tutor_chat_client/pkg/errorx"
	myjwt "tutor_chat_client/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsChatHandler 升级 WebSocket 连接
// GET /ws/chat?token=xxx
// 鉴权走查询参数中的 Access Token；升级后等待客户端的 user_online 宣告
func (s *Server) wsChatHandler(c *gin.Context) {
	claims, err := myjwt.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "Token 已过期或无效",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := newWsClient(claims.UserID, conn)
	go client.writePump()
	go s.readLoop(client)
}

// readLoop 消费一条连接上的客户端事件
func (s *Server) readLoop(client *wsClient) {
	defer s.Hub.Remove(client)
	for {
		var ev socket.Event
		if err := client.conn.ReadJSON(&ev); err != nil {
			return
		}
		switch ev.Event {
		case socket.EventUserOnline:
			var req request.UserOnlineRequest
			if err := ev.Bind(&req); err != nil {
				continue
			}
			// 宣告的身份必须与 Token 一致
			if req.UserId == client.userId {
				s.Hub.Announce(client)
			}

		case socket.EventSendMessage:
			var req request.ChatMessageRequest
			if err := ev.Bind(&req); err != nil {
				continue
			}
			if req.SenderId != client.userId || !s.Store.Allowed(req.SenderId, req.ReceiverId) {
				continue
			}
			// 双写去重：REST 已落库的消息这里不会重复投递
			msg, inserted := s.Store.AddMessage(req.SenderId, req.ReceiverId, req.Content, req.SenderType, req.ClientMsgId)
			if inserted {
				s.deliver(msg)
			}

		case socket.EventTyping, socket.EventStopTyping:
			var req request.TypingRequest
			if err := ev.Bind(&req); err != nil {
				continue
			}
			s.Hub.RelayTyping(req, ev.Event == socket.EventStopTyping)

		default:
			zap.L().Debug("devserver ignoring event", zap.String("event", ev.Event))
		}
	}
}
