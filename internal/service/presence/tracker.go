// Package presence 维护在线用户集合
// 集合完全来自服务端的 users_online 全量广播：每次广播整体替换，
// 不做增量合并，也没有本地 TTL，旧快照一直生效到下一次广播
package presence

import (
	"sort"
	"sync"
)

// Tracker 在线状态跟踪器
type Tracker struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewTracker 创建跟踪器，初始为空集合
func NewTracker() *Tracker {
	return &Tracker{
		online: make(map[string]struct{}),
	}
}

// Replace 用广播的全量名单整体替换本地集合（last-broadcast-wins）
func (t *Tracker) Replace(userIds []string) {
	next := make(map[string]struct{}, len(userIds))
	for _, id := range userIds {
		if id == "" {
			continue
		}
		next[id] = struct{}{}
	}
	t.mu.Lock()
	t.online = next
	t.mu.Unlock()
}

// IsOnline 查询指定用户是否在线
func (t *Tracker) IsOnline(userId string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[userId]
	return ok
}

// Count 返回在线人数
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.online)
}

// Snapshot 返回在线用户 ID 快照（排序后，供界面展示）
func (t *Tracker) Snapshot() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.online))
	for id := range t.online {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
