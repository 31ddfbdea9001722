package stream

import (
	"sync"
	"time"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/gateway/socket"

	"go.uber.org/zap"
)

// Emitter 输入状态事件发送接口（*socket.ConnManager 实现）
type Emitter interface {
	Send(ev *socket.Event) error
}

// TypingNotifier 发送方输入状态机（针对当前活动会话）
//
//	Idle --按键--> Typing --(空闲超时 | 消息已发送)--> Idle
//
// Idle→Typing 迁移时发送一次 typing，Typing→Idle 迁移时发送一次 stop_typing，
// 每次迁移恰好各发一条
type TypingNotifier struct {
	emit Emitter
	idle time.Duration

	mu         sync.Mutex
	receiverId string
	typing     bool
	timer      *time.Timer
}

// NewTypingNotifier 创建输入状态机
// idle 为停止输入的判定空闲时长（产品值 3 秒，测试可缩短）
func NewTypingNotifier(emit Emitter, idle time.Duration) *TypingNotifier {
	return &TypingNotifier{
		emit: emit,
		idle: idle,
	}
}

// SetReceiver 切换会话对端
// 切换前如果还在 Typing 状态，先向旧对端补发 stop_typing
func (n *TypingNotifier) SetReceiver(receiverId string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.receiverId != receiverId {
		n.stopLocked()
	}
	n.receiverId = receiverId
}

// Keystroke 上报一次按键
// 首次按键触发 Idle→Typing 并发送 typing；后续按键仅重置空闲计时器
func (n *TypingNotifier) Keystroke() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.receiverId == "" {
		return
	}
	if !n.typing {
		n.typing = true
		n.send(socket.EventTyping, n.receiverId)
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.idle, n.idleTimeout)
}

// MessageSent 消息发出后立即回到 Idle
func (n *TypingNotifier) MessageSent() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
}

// Typing 查询当前是否处于 Typing 状态
func (n *TypingNotifier) Typing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.typing
}

// idleTimeout 空闲计时器到期回调
func (n *TypingNotifier) idleTimeout() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
}

// stopLocked 执行 Typing→Idle 迁移，需持锁调用
func (n *TypingNotifier) stopLocked() {
	if !n.typing {
		return
	}
	n.typing = false
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.send(socket.EventStopTyping, n.receiverId)
}

func (n *TypingNotifier) send(event, receiverId string) {
	ev, err := socket.NewEvent(event, request.TypingRequest{ReceiverId: receiverId})
	if err != nil {
		return
	}
	if err := n.emit.Send(ev); err != nil {
		zap.L().Debug("typing push dropped", zap.String("event", event), zap.Error(err))
	}
}
