package api

import (
	"context"
	"fmt"

	"tutor_chat_client/internal/dto/respond"
)

// GetUnreadCount 拉取通知未读数
// GET /notifications/unread/count
func (c *RestClient) GetUnreadCount(ctx context.Context) (int, error) {
	var out respond.UnreadCountRespond
	if err := c.get(ctx, "/notifications/unread/count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// GetNotifications 拉取最近通知列表
// GET /notifications?limit=N
func (c *RestClient) GetNotifications(ctx context.Context, limit int) ([]respond.NotificationRespond, error) {
	var list []respond.NotificationRespond
	if err := c.get(ctx, fmt.Sprintf("/notifications?limit=%d", limit), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead 标记单条通知已读
// PUT /notifications/{id}/read
func (c *RestClient) MarkNotificationRead(ctx context.Context, id string) error {
	return c.put(ctx, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllNotificationsRead 标记全部通知已读
// PUT /notifications/read-all
func (c *RestClient) MarkAllNotificationsRead(ctx context.Context) error {
	return c.put(ctx, "/notifications/read-all", nil, nil)
}
