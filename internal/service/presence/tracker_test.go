package presence

import (
	"testing"
)

func TestReplaceIsWholesale(t *testing.T) {
	tr := NewTracker()

	tr.Replace([]string{"A", "B"})
	if !tr.IsOnline("A") || !tr.IsOnline("B") {
		t.Fatal("A 和 B 应该都在线")
	}

	// 第二次广播不含 A：整体替换，不是合并
	tr.Replace([]string{"B"})
	if tr.IsOnline("A") {
		t.Error("A 应该随新广播下线")
	}
	if !tr.IsOnline("B") {
		t.Error("B 应该仍然在线")
	}
	if tr.Count() != 1 {
		t.Errorf("在线人数应为 1, 实际 %d", tr.Count())
	}
}

func TestReplaceEmptyBroadcast(t *testing.T) {
	tr := NewTracker()
	tr.Replace([]string{"A"})
	tr.Replace(nil)
	if tr.IsOnline("A") || tr.Count() != 0 {
		t.Error("空广播应清空在线集合")
	}
}

func TestReplaceIgnoresEmptyIds(t *testing.T) {
	tr := NewTracker()
	tr.Replace([]string{"", "A", ""})
	if tr.Count() != 1 {
		t.Errorf("空 ID 应被忽略, 在线人数应为 1, 实际 %d", tr.Count())
	}
}

func TestSnapshotSorted(t *testing.T) {
	tr := NewTracker()
	tr.Replace([]string{"c", "a", "b"})
	got := tr.Snapshot()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("快照长度不符: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("快照应排序, 位置 %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestIsOnlineUnknownUser(t *testing.T) {
	tr := NewTracker()
	if tr.IsOnline("nobody") {
		t.Error("未广播过的用户不应在线")
	}
}
