package devserver

import (
	"strconv"
	"time"

	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// notificationsHandler 最近通知列表
// GET /notifications?limit=N
func (s *Server) notificationsHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list := s.Store.Notifications(ownerId, limit)
	out := make([]respond.NotificationRespond, 0, len(list))
	for _, n := range list {
		out = append(out, respond.NotificationRespond{
			Id:        n.Id,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	handleSuccess(c, out)
}

// unreadCountHandler 未读通知数
// GET /notifications/unread/count
func (s *Server) unreadCountHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	handleSuccess(c, respond.UnreadCountRespond{
		Count: s.Store.UnreadNotificationCount(ownerId),
	})
}

// markReadHandler 标记单条通知已读
// PUT /notifications/{id}/read
func (s *Server) markReadHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	if !s.Store.MarkNotificationRead(ownerId, c.Param("id")) {
		handleError(c, errorx.ErrNotFound)
		return
	}
	handleSuccess(c, nil)
}

// markAllReadHandler 标记全部通知已读
// PUT /notifications/read-all
func (s *Server) markAllReadHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	s.Store.MarkAllNotificationsRead(ownerId)
	handleSuccess(c, nil)
}
