package devserver

import (
	"time"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// conversationsHandler 会话摘要列表
// GET /messages/conversations
func (s *Server) conversationsHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	aggs := s.Store.Conversations(ownerId)
	out := make([]respond.ConversationSummaryRespond, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, respond.ConversationSummaryRespond{
			CounterpartId: agg.counterpart.Id,
			User: respond.CounterpartUserRespond{
				Name:   agg.counterpart.Name,
				Email:  agg.counterpart.Email,
				Avatar: agg.counterpart.Avatar,
			},
			LastMessage:     agg.last.Content,
			LastMessageTime: agg.last.CreatedAt.Format(time.RFC3339),
			UnreadCount:     agg.unread,
		})
	}
	handleSuccess(c, out)
}

// historyHandler 指定对端的消息历史（升序），读取即标记已读
// GET /messages/conversation/{counterpartId}
func (s *Server) historyHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	counterpartId := c.Param("counterpartId")
	msgs := s.Store.History(ownerId, counterpartId)
	out := make([]respond.MessageRespond, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, respond.MessageRespond{
			Sender:      m.Sender,
			Receiver:    m.Receiver,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
			IsRead:      m.IsRead,
			SenderType:  m.SenderType,
			ClientMsgId: m.ClientMsgId,
		})
	}
	handleSuccess(c, out)
}

// sendMessageHandler 持久化一条消息
// POST /messages/send
// 发送方与接收方不在允许关系内时返回 403
func (s *Server) sendMessageHandler(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleParamError(c, err)
		return
	}
	ownerId, _ := currentUser(c)
	if !s.Store.Allowed(ownerId, req.ReceiverId) {
		handleError(c, errorx.ErrNotAuthorized)
		return
	}
	msg, inserted := s.Store.AddMessage(ownerId, req.ReceiverId, req.Content, req.SenderType, req.ClientMsgId)
	if inserted {
		s.deliver(msg)
	}
	handleSuccess(c, nil)
}

// deliver 新消息落库后的推送副作用：
// 在线投递 receive_message，并给接收方生成一条未读通知
func (s *Server) deliver(msg *storedMessage) {
	s.Hub.DeliverMessage(msg)
	s.Store.AddNotification(msg.Receiver, "新消息", msg.Content)
	s.Hub.PushNotificationNew(msg.Receiver)
}
