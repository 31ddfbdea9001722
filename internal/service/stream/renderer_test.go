package stream

import "testing"

func TestObserveScrollsOnlyOnGrowth(t *testing.T) {
	scrolls := 0
	r := NewRenderer(func() { scrolls++ }, nil)

	r.Observe(3)
	if scrolls != 1 {
		t.Fatalf("消息数增长应触发滚动, 实际 %d 次", scrolls)
	}
	// 等量上报（如历史等长替换）不触发
	r.Observe(3)
	if scrolls != 1 {
		t.Errorf("等量上报不应触发滚动, 实际 %d 次", scrolls)
	}
	// 减少也不触发
	r.Observe(1)
	if scrolls != 1 {
		t.Errorf("数量减少不应触发滚动, 实际 %d 次", scrolls)
	}
	r.Observe(2)
	if scrolls != 2 {
		t.Errorf("重新增长应再次触发滚动, 实际 %d 次", scrolls)
	}
}

func TestResetClearsCountAndIndicator(t *testing.T) {
	var indicator []bool
	r := NewRenderer(nil, func(v bool) { indicator = append(indicator, v) })

	r.Observe(5)
	r.SetPeerTyping(true)
	r.Reset()

	if r.PeerTyping() {
		t.Error("Reset 后对端输入指示器应关闭")
	}
	// 切换会话后哪怕线程更短，首次上报也视为增长
	scrolled := false
	r2 := NewRenderer(func() { scrolled = true }, nil)
	r2.Observe(10)
	r2.Reset()
	r2.Observe(2)
	if !scrolled {
		t.Error("Reset 后计数应归零，首次上报视为增长")
	}
	if len(indicator) != 2 || indicator[1] != false {
		t.Errorf("指示器回调序列不正确: %v", indicator)
	}
}

func TestSetPeerTypingFiresOnlyOnChange(t *testing.T) {
	calls := 0
	r := NewRenderer(nil, func(bool) { calls++ })

	r.SetPeerTyping(true)
	r.SetPeerTyping(true)
	if calls != 1 {
		t.Errorf("重复置位不应重复回调, 实际 %d 次", calls)
	}
	r.SetPeerTyping(false)
	if calls != 2 {
		t.Errorf("状态翻转应回调, 实际 %d 次", calls)
	}
}
