// Package notification 维护通知铃铛的未读数和面板列表
// 刷新有三个独立的触发源：30 秒轮询兜底、推送失效事件、用户操作；
// 刷新本身幂等、可重入，结果以最后一次完成的为准
package notification

import (
	"context"
	"sync"
	"time"

	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/internal/infrastructure/taskpool"
	"tutor_chat_client/pkg/constants"

	"go.uber.org/zap"
)

// NotificationAPI 通知相关的 REST 接口（*api.RestClient 实现）
type NotificationAPI interface {
	GetUnreadCount(ctx context.Context) (int, error)
	GetNotifications(ctx context.Context, limit int) ([]respond.NotificationRespond, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Service 通知服务
type Service struct {
	api   NotificationAPI
	limit int
	poll  time.Duration

	mu        sync.RWMutex
	unread    int
	items     []respond.NotificationRespond
	panelOpen bool

	onChange func(unread int) // 未读数变化时回调（铃铛角标）

	done chan struct{}
	once sync.Once
}

// NewService 创建通知服务
// pollSeconds <= 0 时使用默认轮询间隔
func NewService(api NotificationAPI, pollSeconds, listLimit int, onChange func(int)) *Service {
	if pollSeconds <= 0 {
		pollSeconds = constants.NOTIFY_POLL_SECONDS
	}
	if listLimit <= 0 {
		listLimit = 20
	}
	return &Service{
		api:      api,
		limit:    listLimit,
		poll:     time.Duration(pollSeconds) * time.Second,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// Start 启动轮询协程（先立即刷新一次）
func (s *Service) Start() {
	go func() {
		s.refresh()
		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-s.done:
				return
			}
		}
	}()
}

// Close 停止轮询
func (s *Service) Close() {
	s.once.Do(func() { close(s.done) })
}

// Invalidate 推送失效触发的异步刷新
// notification:new / notifications:updated 事件到达时调用，可重复调用
func (s *Service) Invalidate() {
	taskpool.Submit(s.refresh)
}

// refresh 拉取未读数（面板打开时连列表一起），最后完成者生效
func (s *Service) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.poll)
	defer cancel()

	count, err := s.api.GetUnreadCount(ctx)
	if err != nil {
		zap.L().Warn("refresh unread count failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	changed := s.unread != count
	s.unread = count
	panelOpen := s.panelOpen
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(count)
	}

	if panelOpen {
		list, err := s.api.GetNotifications(ctx, s.limit)
		if err != nil {
			zap.L().Warn("refresh notification list failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.items = list
		s.mu.Unlock()
	}
}

// SetPanelOpen 设置通知面板开关
// 打开时立即拉取列表
func (s *Service) SetPanelOpen(open bool) {
	s.mu.Lock()
	s.panelOpen = open
	s.mu.Unlock()
	if open {
		s.Invalidate()
	}
}

// MarkRead 标记单条通知已读
// 本地乐观更新角标，REST 调用失败时下一次刷新会纠正
func (s *Service) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Id == id && !s.items[i].IsRead {
			s.items[i].IsRead = true
			if s.unread > 0 {
				s.unread--
			}
		}
	}
	unread := s.unread
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(unread)
	}
	return s.api.MarkNotificationRead(ctx, id)
}

// MarkAllRead 标记全部通知已读
func (s *Service) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.unread = 0
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(0)
	}
	return s.api.MarkAllNotificationsRead(ctx)
}

// Unread 返回当前未读数
func (s *Service) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Items 返回面板列表快照
func (s *Service) Items() []respond.NotificationRespond {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]respond.NotificationRespond, len(s.items))
	copy(out, s.items)
	return out
}
