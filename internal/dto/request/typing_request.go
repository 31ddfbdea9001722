package request

// TypingRequest 输入状态推送载荷 (WebSocket typing / stop_typing 事件)
// 使用位置:
//   - internal/service/stream/typing.go: TypingNotifier
//   - internal/devserver/hub.go: relayTyping
type TypingRequest struct {
	ReceiverId string `json:"receiverId" binding:"required"`
}
