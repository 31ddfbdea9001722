// Package stream 负责活动线程的展示侧状态
// 消息按存储中的数组顺序渲染（到达序，永不重排）；
// 本包只管理两类瞬态：新消息自动滚动触发和输入指示器
package stream

import "sync"

// Renderer 消息流渲染状态
type Renderer struct {
	mu         sync.Mutex
	lastCount  int
	peerTyping bool

	onScroll func()     // 活动线程消息数增长时触发（滚动到最新）
	onTyping func(bool) // 对端输入指示器开关时触发
}

// NewRenderer 创建渲染状态，回调可以为 nil
func NewRenderer(onScroll func(), onTyping func(bool)) *Renderer {
	return &Renderer{
		onScroll: onScroll,
		onTyping: onTyping,
	}
}

// Observe 上报当前活动线程的消息数
// 只在数量增长时触发滚动，历史替换导致的等量/减少不触发
func (r *Renderer) Observe(count int) {
	r.mu.Lock()
	grew := count > r.lastCount
	r.lastCount = count
	r.mu.Unlock()
	if grew && r.onScroll != nil {
		r.onScroll()
	}
}

// Reset 线程切换时清零计数和输入指示器
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.lastCount = 0
	wasTyping := r.peerTyping
	r.peerTyping = false
	r.mu.Unlock()
	if wasTyping && r.onTyping != nil {
		r.onTyping(false)
	}
}

// SetPeerTyping 设置对端输入指示器（user_typing / user_stopped_typing 推送）
func (r *Renderer) SetPeerTyping(typing bool) {
	r.mu.Lock()
	changed := r.peerTyping != typing
	r.peerTyping = typing
	r.mu.Unlock()
	if changed && r.onTyping != nil {
		r.onTyping(typing)
	}
}

// PeerTyping 查询对端是否正在输入
func (r *Renderer) PeerTyping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peerTyping
}
