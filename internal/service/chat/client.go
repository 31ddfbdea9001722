// Package chat 聚合实时消息客户端的全部组件
// client.go
// 核心职责：
// 1. 组装连接管理器、在线状态、会话存储、渲染状态和通知服务
// 2. 运行单一调度循环：所有推送事件串行下发，共享状态单写入方
// 3. 统一生命周期管理（登录时 Start，登出时 Close）
package chat

import (
	"context"
	"sync"
	"time"

	"tutor_chat_client/internal/api"
	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/internal/gateway/socket"
	"tutor_chat_client/internal/service/conversation"
	"tutor_chat_client/internal/service/notification"
	"tutor_chat_client/internal/service/presence"
	"tutor_chat_client/internal/service/stream"
	"tutor_chat_client/internal/session"
	"tutor_chat_client/pkg/constants"
	"tutor_chat_client/pkg/errorx"

	"go.uber.org/zap"
)

// Callbacks 界面回调集合，字段可以为 nil
type Callbacks struct {
	Banner      func(text string) // 连接状态横幅，空串表示清除
	Scroll      func()            // 活动线程出现新消息，滚动到底部
	PeerTyping  func(bool)        // 对端输入指示器开关
	UnreadBadge func(count int)   // 通知铃铛角标
}

// ChatClient 实时消息客户端聚合结构
type ChatClient struct {
	Sess          *session.Session
	Conn          *socket.ConnManager
	Rest          *api.RestClient
	Presence      *presence.Tracker
	Conversations *conversation.Store
	Renderer      *stream.Renderer
	Typing        *stream.TypingNotifier
	Notifications *notification.Service

	done chan struct{}
	once sync.Once
}

// NewChatClient 创建客户端实例
func NewChatClient(cfg *config.Config, sess *session.Session, cb Callbacks) (*ChatClient, error) {
	rest := api.NewRestClient(cfg, sess.Token)

	onState := func(s socket.State) {
		if cb.Banner == nil {
			return
		}
		switch s {
		case socket.StateOnline:
			cb.Banner("")
		case socket.StateReconnecting:
			cb.Banner(errorx.ErrConnLost.Msg)
		case socket.StateFailed:
			cb.Banner(errorx.ErrReconnectFailed.Msg)
		}
	}

	conn, err := socket.NewConnManager(cfg, sess, onState)
	if err != nil {
		return nil, err
	}

	c := &ChatClient{
		Sess:          sess,
		Conn:          conn,
		Rest:          rest,
		Presence:      presence.NewTracker(),
		Conversations: conversation.NewStore(sess, rest, conn),
		Renderer:      stream.NewRenderer(cb.Scroll, cb.PeerTyping),
		Typing:        stream.NewTypingNotifier(conn, constants.TYPING_IDLE_SECONDS*time.Second),
		Notifications: notification.NewService(rest, cfg.NotifyConfig.PollIntervalSeconds, cfg.NotifyConfig.ListLimit, cb.UnreadBadge),
		done:          make(chan struct{}),
	}
	return c, nil
}

// Start 启动客户端：建立连接、加载初始数据、启动调度循环和通知轮询
// 初始加载失败只记日志，界面可通过重新打开列表重试
func (c *ChatClient) Start(ctx context.Context) {
	c.Conn.Start()
	go c.dispatch()
	c.Notifications.Start()

	if err := c.Conversations.LoadConversations(ctx); err != nil {
		zap.L().Warn("load conversations failed", zap.Error(err))
	}
	if err := c.Conversations.LoadDirectory(ctx); err != nil {
		zap.L().Warn("load directory failed", zap.Error(err))
	}
}

// Close 关闭客户端（登出）
func (c *ChatClient) Close() {
	c.once.Do(func() {
		close(c.done)
		c.Conn.Close()
		c.Notifications.Close()
	})
}

// dispatch 单一调度循环
// 推送事件在此串行处理，保证共享状态的单写入方语义
func (c *ChatClient) dispatch() {
	for {
		select {
		case ev := <-c.Conn.Transmit:
			c.handle(ev)
		case <-c.done:
			return
		}
	}
}

// handle 分发一条推送事件
func (c *ChatClient) handle(ev *socket.Event) {
	switch ev.Event {
	case socket.EventUsersOnline:
		var ids []string
		if err := ev.Bind(&ids); err != nil {
			zap.L().Error("bad users_online payload", zap.Error(err))
			return
		}
		c.Presence.Replace(ids)

	case socket.EventReceiveMessage:
		var p respond.ReceiveMessageRespond
		if err := ev.Bind(&p); err != nil {
			zap.L().Error("bad receive_message payload", zap.Error(err))
			return
		}
		c.Conversations.OnPushMessage(p)
		c.Renderer.Observe(c.Conversations.ThreadLen())

	case socket.EventUserTyping:
		c.Renderer.SetPeerTyping(true)

	case socket.EventUserStoppedTyping:
		c.Renderer.SetPeerTyping(false)

	case socket.EventNotificationNew, socket.EventNotificationsUpdated:
		c.Notifications.Invalidate()

	default:
		zap.L().Debug("unhandled push event", zap.String("event", ev.Event))
	}
}

// OpenConversation 打开与指定对端的会话
func (c *ChatClient) OpenConversation(ctx context.Context, counterpartId string) error {
	c.Renderer.Reset()
	c.Typing.SetReceiver(counterpartId)
	if err := c.Conversations.Select(ctx, counterpartId); err != nil {
		return err
	}
	c.Renderer.Observe(c.Conversations.ThreadLen())
	return nil
}

// Send 在当前会话发送一条消息
func (c *ChatClient) Send(ctx context.Context, content string) error {
	receiverId := c.Conversations.Active()
	if receiverId == "" {
		return errorx.New(errorx.CodeInvalidParam, "请先选择会话")
	}
	c.Typing.MessageSent()
	err := c.Conversations.SendMessage(ctx, receiverId, content)
	c.Renderer.Observe(c.Conversations.ThreadLen())
	return err
}

// Keystroke 上报输入框按键（驱动输入状态机）
func (c *ChatClient) Keystroke() {
	c.Typing.Keystroke()
}
