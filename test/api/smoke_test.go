package api_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/devserver"
	"tutor_chat_client/internal/service/chat"
	"tutor_chat_client/internal/session"
	"tutor_chat_client/pkg/errorx"
	myjwt "tutor_chat_client/pkg/util/jwt"
)

// 端到端冒烟测试：开发服务器 + 两个真实客户端
// 覆盖在线宣告、双写去重、未读计数、输入指示器、权限拒绝和通知推送

type uiProbe struct {
	mu      sync.Mutex
	banners []string
	badges  []int
	typing  []bool
}

func (p *uiProbe) callbacks() chat.Callbacks {
	return chat.Callbacks{
		Banner: func(text string) {
			p.mu.Lock()
			p.banners = append(p.banners, text)
			p.mu.Unlock()
		},
		PeerTyping: func(v bool) {
			p.mu.Lock()
			p.typing = append(p.typing, v)
			p.mu.Unlock()
		},
		UnreadBadge: func(n int) {
			p.mu.Lock()
			p.badges = append(p.badges, n)
			p.mu.Unlock()
		},
	}
}

func startEnv(t *testing.T) (*httptest.Server, *devserver.Server) {
	t.Helper()
	srv := devserver.New("smoke-test-secret")
	srv.Store.Seed()
	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return ts, srv
}

func startClient(t *testing.T, ts *httptest.Server, userId, role string) (*chat.ChatClient, *uiProbe) {
	t.Helper()
	token, err := myjwt.GenerateAccessToken(userId, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.New(token)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.ServerConfig.BaseURL = ts.URL
	cfg.ServerConfig.WsURL = "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	cfg.ReconnectConfig.InitialDelayMs = 20
	cfg.ReconnectConfig.MaxDelayMs = 100

	probe := &uiProbe{}
	client, err := chat.NewChatClient(cfg, sess, probe.callbacks())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	client.Start(ctx)
	t.Cleanup(client.Close)
	return client, probe
}

func TestSmokeMessagingFlow(t *testing.T) {
	ts, _ := startEnv(t)
	ctx := context.Background()

	alice, _ := startClient(t, ts, "stu_alice", "student")
	carol, carolUI := startClient(t, ts, "tut_carol", "tutor")

	// 双方上线后互相可见
	waitFor(t, func() bool {
		return alice.Presence.IsOnline("tut_carol") && carol.Presence.IsOnline("stu_alice")
	})

	// Alice 打开与 Carol 的会话并发送消息
	if err := alice.OpenConversation(ctx, "tut_carol"); err != nil {
		t.Fatal(err)
	}
	if err := alice.Send(ctx, "你好 Carol"); err != nil {
		t.Fatal(err)
	}
	if got := len(alice.Conversations.Thread()); got != 1 {
		t.Fatalf("发送方线程应有 1 条乐观消息, 实际 %d", got)
	}

	// Carol 未打开会话，推送计入未读
	waitFor(t, func() bool {
		sum, ok := carol.Conversations.SummaryOf("stu_alice")
		return ok && sum.UnreadCount == 1
	})

	// Carol 打开会话：历史恰好一条（连线 + REST 双写只落库一条）
	if err := carol.OpenConversation(ctx, "stu_alice"); err != nil {
		t.Fatal(err)
	}
	thread := carol.Conversations.Thread()
	if len(thread) != 1 || thread[0].Content != "你好 Carol" {
		t.Fatalf("双写应只落库一条消息: %+v", thread)
	}
	sum, _ := carol.Conversations.SummaryOf("stu_alice")
	if sum.UnreadCount != 0 {
		t.Errorf("打开会话后未读应归零, 实际 %d", sum.UnreadCount)
	}

	// 会话打开状态下的后续推送进入线程且不计未读
	if err := alice.Send(ctx, "在吗"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return carol.Conversations.ThreadLen() == 2 })
	sum, _ = carol.Conversations.SummaryOf("stu_alice")
	if sum.UnreadCount != 0 {
		t.Errorf("活动会话不应累计未读, 实际 %d", sum.UnreadCount)
	}

	// 发送方不得因服务器回显出现重复消息
	time.Sleep(100 * time.Millisecond)
	if got := len(alice.Conversations.Thread()); got != 2 {
		t.Errorf("发送方线程应保持 2 条, 实际 %d", got)
	}

	// 输入指示器经服务端中转
	alice.Keystroke()
	waitFor(t, func() bool { return carol.Renderer.PeerTyping() })
	carolUI.mu.Lock()
	sawTyping := len(carolUI.typing) > 0 && carolUI.typing[0]
	carolUI.mu.Unlock()
	if !sawTyping {
		t.Error("对端输入指示器回调未触发")
	}
}

func TestSmokeAuthorizationDenied(t *testing.T) {
	ts, _ := startEnv(t)
	ctx := context.Background()

	alice, _ := startClient(t, ts, "stu_alice", "student")
	waitFor(t, func() bool { return alice.Presence.IsOnline("stu_alice") })

	// 学生之间不存在师生关系，发送被拒
	err := alice.Conversations.SendMessage(ctx, "stu_bob", "不该发出去")
	if !errorx.IsUnauthorized(err) {
		t.Fatalf("师生关系外的发送应被拒绝, 实际 %v", err)
	}
}

func TestSmokeDirectoryAndPublicTutor(t *testing.T) {
	ts, _ := startEnv(t)
	ctx := context.Background()

	alice, _ := startClient(t, ts, "stu_alice", "student")
	waitFor(t, func() bool { return alice.Presence.IsOnline("stu_alice") })

	// 目录包含指派导师和公开导师
	if _, ok := alice.Conversations.SummaryOf("tut_carol"); !ok {
		t.Error("指派导师应出现在列表中")
	}
	if _, ok := alice.Conversations.SummaryOf("tut_dave"); !ok {
		t.Error("公开导师应出现在列表中")
	}

	// 公开导师允许对话
	if err := alice.Conversations.SendMessage(ctx, "tut_dave", "请教一个问题"); err != nil {
		t.Fatalf("公开导师应允许对话: %v", err)
	}

	// 本地搜索
	got := alice.Conversations.Search("dave")
	if len(got) != 1 || got[0].CounterpartId != "tut_dave" {
		t.Errorf("搜索结果不正确: %+v", got)
	}
}

func TestSmokeNotificationBadge(t *testing.T) {
	ts, _ := startEnv(t)
	ctx := context.Background()

	alice, _ := startClient(t, ts, "stu_alice", "student")
	carol, _ := startClient(t, ts, "tut_carol", "tutor")
	waitFor(t, func() bool {
		return alice.Presence.IsOnline("tut_carol") && carol.Presence.IsOnline("stu_alice")
	})

	// 种子数据自带一条欢迎通知
	waitFor(t, func() bool { return alice.Notifications.Unread() == 1 })

	// 新消息触发通知推送，角标即时刷新（不等 30 秒轮询）
	if err := carol.Conversations.SendMessage(ctx, "stu_alice", "作业批好了"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return alice.Notifications.Unread() == 2 })

	// 打开面板拉取列表并标记已读
	alice.Notifications.SetPanelOpen(true)
	waitFor(t, func() bool { return len(alice.Notifications.Items()) == 2 })
	if err := alice.Notifications.MarkAllRead(ctx); err != nil {
		t.Fatal(err)
	}
	if alice.Notifications.Unread() != 0 {
		t.Errorf("全部已读后角标应为 0, 实际 %d", alice.Notifications.Unread())
	}
}

func TestSmokeServerKickTriggersReconnect(t *testing.T) {
	ts, srv := startEnv(t)

	alice, aliceUI := startClient(t, ts, "stu_alice", "student")
	waitFor(t, func() bool { return srv.Hub.Online("stu_alice") })

	// 服务端踢线后客户端立即重拨并重新宣告，恢复在线
	srv.Hub.Kick("stu_alice")
	waitFor(t, func() bool { return srv.Hub.Online("stu_alice") && alice.Presence.IsOnline("stu_alice") })

	// 横幅先提示断线，恢复后清除
	waitFor(t, func() bool {
		aliceUI.mu.Lock()
		defer aliceUI.mu.Unlock()
		sawDrop, sawRestore := false, false
		for _, b := range aliceUI.banners {
			if b != "" {
				sawDrop = true
			}
			if sawDrop && b == "" {
				sawRestore = true
			}
		}
		return sawDrop && sawRestore
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("条件等待超时")
}
