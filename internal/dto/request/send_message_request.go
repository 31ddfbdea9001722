package request

// SendMessageRequest 消息持久化请求 (POST /messages/send)
// 使用位置:
//   - internal/api/messages.go: SendMessage
//   - internal/service/conversation/store.go: SendMessage
//   - internal/devserver/message_handler.go: sendMessageHandler
type SendMessageRequest struct {
	ReceiverId   string `json:"receiverId" validate:"required"`
	Content      string `json:"content" validate:"required"`
	SenderType   string `json:"senderType" validate:"required,oneof=student tutor"`
	ReceiverType string `json:"receiverType" validate:"required,oneof=student tutor"`
	// ClientMsgId 客户端生成的幂等 ID，用于对账服务器回显，防止重复追加
	ClientMsgId string `json:"clientMsgId"`
}
