package notification

import (
	"context"
	"sync"
	"testing"

	"tutor_chat_client/internal/dto/respond"
)

// stubNotifyAPI NotificationAPI 的测试桩
// 任务池未初始化时 Invalidate 同步执行，断言无需等待
type stubNotifyAPI struct {
	mu sync.Mutex

	unread int
	items  []respond.NotificationRespond

	countCalls int
	listCalls  int
	readIds    []string
	readAll    int
}

func (a *stubNotifyAPI) GetUnreadCount(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.countCalls++
	return a.unread, nil
}

func (a *stubNotifyAPI) GetNotifications(ctx context.Context, limit int) ([]respond.NotificationRespond, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	if limit < len(a.items) {
		return a.items[:limit], nil
	}
	return a.items, nil
}

func (a *stubNotifyAPI) MarkNotificationRead(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readIds = append(a.readIds, id)
	return nil
}

func (a *stubNotifyAPI) MarkAllNotificationsRead(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readAll++
	return nil
}

func TestInvalidateRefreshesBadge(t *testing.T) {
	api := &stubNotifyAPI{unread: 3}
	var badge []int
	svc := NewService(api, 30, 20, func(n int) { badge = append(badge, n) })

	svc.Invalidate()
	if svc.Unread() != 3 {
		t.Fatalf("未读数应为 3, 实际 %d", svc.Unread())
	}
	if len(badge) != 1 || badge[0] != 3 {
		t.Errorf("角标回调序列不正确: %v", badge)
	}

	// 数值未变时不重复回调
	svc.Invalidate()
	if len(badge) != 1 {
		t.Errorf("未读数未变不应重复回调, 实际 %v", badge)
	}

	// 面板关闭时不拉取列表
	api.mu.Lock()
	listCalls := api.listCalls
	api.mu.Unlock()
	if listCalls != 0 {
		t.Errorf("面板关闭时不应拉取列表, 实际 %d 次", listCalls)
	}
}

func TestPanelOpenFetchesList(t *testing.T) {
	api := &stubNotifyAPI{
		unread: 1,
		items: []respond.NotificationRespond{
			{Id: "n1", Title: "新消息", Content: "Carol 给你发来一条消息"},
		},
	}
	svc := NewService(api, 30, 20, nil)

	svc.SetPanelOpen(true)
	items := svc.Items()
	if len(items) != 1 || items[0].Id != "n1" {
		t.Fatalf("面板打开应拉取列表: %+v", items)
	}

	// limit 传递给 REST 层
	api.mu.Lock()
	api.items = make([]respond.NotificationRespond, 30)
	api.mu.Unlock()
	svc.Invalidate()
	if got := len(svc.Items()); got != 20 {
		t.Errorf("列表应按 limit 截断为 20, 实际 %d", got)
	}
}

func TestMarkReadOptimistic(t *testing.T) {
	api := &stubNotifyAPI{
		unread: 2,
		items: []respond.NotificationRespond{
			{Id: "n1", Title: "新消息"},
			{Id: "n2", Title: "新消息"},
		},
	}
	var badge []int
	svc := NewService(api, 30, 20, func(n int) { badge = append(badge, n) })
	svc.SetPanelOpen(true)

	if err := svc.MarkRead(context.Background(), "n1"); err != nil {
		t.Fatal(err)
	}
	// 角标先行递减，不等 REST 返回确认
	if svc.Unread() != 1 {
		t.Errorf("乐观递减后未读数应为 1, 实际 %d", svc.Unread())
	}
	items := svc.Items()
	if !items[0].IsRead || items[1].IsRead {
		t.Errorf("只有 n1 应被置为已读: %+v", items)
	}
	api.mu.Lock()
	readIds := append([]string(nil), api.readIds...)
	api.mu.Unlock()
	if len(readIds) != 1 || readIds[0] != "n1" {
		t.Errorf("REST 标记调用不正确: %v", readIds)
	}

	// 已读条目重复标记不再递减
	if err := svc.MarkRead(context.Background(), "n1"); err != nil {
		t.Fatal(err)
	}
	if svc.Unread() != 1 {
		t.Errorf("重复标记不应再递减, 实际 %d", svc.Unread())
	}
}

func TestMarkAllRead(t *testing.T) {
	api := &stubNotifyAPI{
		unread: 5,
		items: []respond.NotificationRespond{
			{Id: "n1"}, {Id: "n2"}, {Id: "n3"},
		},
	}
	svc := NewService(api, 30, 20, nil)
	svc.SetPanelOpen(true)

	if err := svc.MarkAllRead(context.Background()); err != nil {
		t.Fatal(err)
	}
	if svc.Unread() != 0 {
		t.Errorf("全部已读后未读数应为 0, 实际 %d", svc.Unread())
	}
	for _, it := range svc.Items() {
		if !it.IsRead {
			t.Errorf("条目 %s 应被置为已读", it.Id)
		}
	}
	api.mu.Lock()
	readAll := api.readAll
	api.mu.Unlock()
	if readAll != 1 {
		t.Errorf("应调用 1 次全部已读接口, 实际 %d", readAll)
	}
}
