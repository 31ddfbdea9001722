package respond

// ReceiveMessageRespond 消息推送载荷 (WebSocket receive_message 事件)
// 使用位置:
//   - internal/service/chat/client.go: dispatch
//   - internal/service/conversation/store.go: OnPushMessage
//   - internal/devserver/hub.go: relayMessage
type ReceiveMessageRespond struct {
	SenderId    string `json:"senderId"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"` // RFC3339
	SenderType  string `json:"senderType"`
	ClientMsgId string `json:"clientMsgId"`
}
