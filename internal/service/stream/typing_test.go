package stream

import (
	"sync"
	"testing"
	"time"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/gateway/socket"
)

// countingEmitter Emitter 测试桩，按事件名计数
type countingEmitter struct {
	mu     sync.Mutex
	counts map[string]int
	last   request.TypingRequest
}

func newCountingEmitter() *countingEmitter {
	return &countingEmitter{counts: map[string]int{}}
}

func (e *countingEmitter) Send(ev *socket.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts[ev.Event]++
	var req request.TypingRequest
	if err := ev.Bind(&req); err == nil {
		e.last = req
	}
	return nil
}

func (e *countingEmitter) count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[event]
}

func TestKeystrokeEmitsTypingOnce(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, time.Hour)
	n.SetReceiver("tut_carol")

	// 持续输入期间只有首次按键发 typing
	for i := 0; i < 10; i++ {
		n.Keystroke()
	}
	if got := emit.count(socket.EventTyping); got != 1 {
		t.Errorf("连续按键应只发 1 条 typing, 实际 %d", got)
	}
	if got := emit.count(socket.EventStopTyping); got != 0 {
		t.Errorf("仍在输入时不应发 stop_typing, 实际 %d", got)
	}
	if emit.last.ReceiverId != "tut_carol" {
		t.Errorf("事件应携带对端 ID, 实际 %q", emit.last.ReceiverId)
	}
}

func TestIdleTimeoutEmitsStopTyping(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, 20*time.Millisecond)
	n.SetReceiver("tut_carol")

	n.Keystroke()
	waitUntil(t, func() bool { return !n.Typing() })

	if got := emit.count(socket.EventStopTyping); got != 1 {
		t.Errorf("空闲超时应发 1 条 stop_typing, 实际 %d", got)
	}

	// 再次按键开始新一轮 Typing
	n.Keystroke()
	if got := emit.count(socket.EventTyping); got != 2 {
		t.Errorf("回到 Idle 后再按键应再发 typing, 实际 %d", got)
	}
}

func TestKeystrokeResetsIdleTimer(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, 60*time.Millisecond)
	n.SetReceiver("tut_carol")

	// 以短于空闲时长的间隔持续按键，计时器不断重置
	for i := 0; i < 5; i++ {
		n.Keystroke()
		time.Sleep(20 * time.Millisecond)
	}
	if !n.Typing() {
		t.Error("持续按键期间应保持 Typing 状态")
	}
	if got := emit.count(socket.EventStopTyping); got != 0 {
		t.Errorf("计时器被重置，不应提前发 stop_typing, 实际 %d", got)
	}
}

func TestMessageSentReturnsToIdle(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, time.Hour)
	n.SetReceiver("tut_carol")

	n.Keystroke()
	n.MessageSent()
	if n.Typing() {
		t.Error("发送消息后应回到 Idle")
	}
	if got := emit.count(socket.EventStopTyping); got != 1 {
		t.Errorf("发送消息应发 1 条 stop_typing, 实际 %d", got)
	}
	// Idle 状态下重复 MessageSent 不再发送
	n.MessageSent()
	if got := emit.count(socket.EventStopTyping); got != 1 {
		t.Errorf("Idle 下重复结束不应再发 stop_typing, 实际 %d", got)
	}
}

func TestSetReceiverFlushesOldPeer(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, time.Hour)
	n.SetReceiver("tut_carol")
	n.Keystroke()

	// 切换会话时向旧对端补发 stop_typing
	n.SetReceiver("tut_dave")
	if got := emit.count(socket.EventStopTyping); got != 1 {
		t.Errorf("切换对端应补发 stop_typing, 实际 %d", got)
	}
	if emit.last.ReceiverId != "tut_carol" {
		t.Errorf("stop_typing 应发给旧对端, 实际 %q", emit.last.ReceiverId)
	}
}

func TestKeystrokeWithoutReceiverIsNoop(t *testing.T) {
	emit := newCountingEmitter()
	n := NewTypingNotifier(emit, time.Hour)
	n.Keystroke()
	if got := emit.count(socket.EventTyping); got != 0 {
		t.Errorf("未选择会话时按键不应发事件, 实际 %d", got)
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("条件等待超时")
}
