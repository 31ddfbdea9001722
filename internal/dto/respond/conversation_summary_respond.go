package respond

// CounterpartUserRespond 对端用户元信息
type CounterpartUserRespond struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// ConversationSummaryRespond 会话摘要响应 (GET /messages/conversations)
// 使用位置:
//   - internal/api/messages.go: GetConversations
//   - internal/service/conversation/store.go: LoadConversations
type ConversationSummaryRespond struct {
	CounterpartId   string                 `json:"counterpartId"`
	User            CounterpartUserRespond `json:"user"`
	LastMessage     string                 `json:"lastMessage"`
	LastMessageTime string                 `json:"lastMessageTime"` // RFC3339
	UnreadCount     int                    `json:"unreadCount"`
}
