package respond

// NotificationRespond 通知条目响应 (GET /notifications?limit=N)
// 使用位置:
//   - internal/api/notifications.go: GetNotifications
//   - internal/service/notification/service.go: Refresh
type NotificationRespond struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"` // RFC3339
}
