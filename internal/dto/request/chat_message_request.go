package request

// ChatMessageRequest 聊天消息推送载荷 (WebSocket send_message 事件)
// 使用位置:
//   - internal/service/conversation/store.go: SendMessage
//   - internal/devserver/hub.go: relayMessage
type ChatMessageRequest struct {
	SenderId     string `json:"senderId" binding:"required"`
	ReceiverId   string `json:"receiverId" binding:"required"`
	Content      string `json:"content"`
	SenderType   string `json:"senderType"`
	ReceiverType string `json:"receiverType"`
	ClientMsgId  string `json:"clientMsgId"`
}
