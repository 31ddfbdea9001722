package request

// UserOnlineRequest 上线宣告载荷 (WebSocket user_online 事件)
// 每次连接建立（含自动重连）后必须发送一次，服务端据此重建在线状态
// 使用位置:
//   - internal/gateway/socket/conn_manager.go: announce
//   - internal/devserver/hub.go: handleUserOnline
type UserOnlineRequest struct {
	UserId string `json:"userId" binding:"required"`
}
