package respond

// UnreadCountRespond 通知未读数响应 (GET /notifications/unread/count)
// 使用位置:
//   - internal/api/notifications.go: GetUnreadCount
//   - internal/service/notification/service.go: Refresh
type UnreadCountRespond struct {
	Count int `json:"count"`
}
