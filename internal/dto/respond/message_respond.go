package respond

// MessageRespond 消息历史响应 (GET /messages/conversation/{counterpartId})
// 使用位置:
//   - internal/api/messages.go: GetConversation
//   - internal/service/conversation/store.go: Select
type MessageRespond struct {
	Sender      string `json:"sender"`
	Receiver    string `json:"receiver"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"` // RFC3339
	IsRead      bool   `json:"isRead"`
	SenderType  string `json:"senderType"`
	ClientMsgId string `json:"clientMsgId"`
}
