// Package devserver 实现消息服务器的开发替身
// 覆盖客户端消费的全部 REST 与连线契约，供本地联调和集成测试使用；
// 数据全部在内存中，不是产品后端
package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// User 平台用户
type User struct {
	Id     string
	Name   string
	Email  string
	Avatar string
	Role   string // "student" 或 "tutor"
	Public bool   // 导师是否出现在公开目录
}

// storedMessage 持久化消息
type storedMessage struct {
	Id          string
	Sender      string
	Receiver    string
	Content     string
	SenderType  string
	ClientMsgId string
	CreatedAt   time.Time
	IsRead      bool
}

// storedNotification 用户通知
type storedNotification struct {
	Id        string
	UserId    string
	Title     string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

// Store 内存数据存储
type Store struct {
	mu            sync.RWMutex
	users         map[string]*User
	assignments   map[string]map[string]bool // studentId → 指派导师集合
	messages      []*storedMessage
	msgByClientId map[string]bool
	notifications map[string][]*storedNotification
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*User),
		assignments:   make(map[string]map[string]bool),
		msgByClientId: make(map[string]bool),
		notifications: make(map[string][]*storedNotification),
	}
}

// Seed 填充一组演示数据
func (s *Store) Seed() {
	s.AddUser(&User{Id: "stu_alice", Name: "Alice", Email: "alice@example.com", Role: "student"})
	s.AddUser(&User{Id: "stu_bob", Name: "Bob", Email: "bob@example.com", Role: "student"})
	s.AddUser(&User{Id: "tut_carol", Name: "Carol", Email: "carol@example.com", Role: "tutor"})
	s.AddUser(&User{Id: "tut_dave", Name: "Dave", Email: "dave@example.com", Role: "tutor", Public: true})
	s.Assign("stu_alice", "tut_carol")
	s.AddNotification("stu_alice", "欢迎", "欢迎使用消息中心")
}

// AddUser 注册用户
func (s *Store) AddUser(u *User) {
	s.mu.Lock()
	s.users[u.Id] = u
	s.mu.Unlock()
}

// GetUser 查询用户
func (s *Store) GetUser(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// Assign 建立师生指派关系
func (s *Store) Assign(studentId, tutorId string) {
	s.mu.Lock()
	if s.assignments[studentId] == nil {
		s.assignments[studentId] = make(map[string]bool)
	}
	s.assignments[studentId][tutorId] = true
	s.mu.Unlock()
}

// Allowed 判断两个用户之间是否允许对话
// 学生 ↔ 指派导师，或学生 ↔ 公开导师；其余组合一律拒绝
func (s *Store) Allowed(aId, bId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, okA := s.users[aId]
	b, okB := s.users[bId]
	if !okA || !okB || a.Role == b.Role {
		return false
	}
	student, tutor := a, b
	if a.Role == "tutor" {
		student, tutor = b, a
	}
	if tutor.Public {
		return true
	}
	return s.assignments[student.Id][tutor.Id]
}

// AddMessage 持久化一条消息
// 按 clientMsgId 去重：客户端双写（连线 + REST）只落库一条
// 返回值 inserted 表示是否为新插入
func (s *Store) AddMessage(sender, receiver, content, senderType, clientMsgId string) (*storedMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clientMsgId != "" && s.msgByClientId[clientMsgId] {
		for i := len(s.messages) - 1; i >= 0; i-- {
			if s.messages[i].ClientMsgId == clientMsgId {
				return s.messages[i], false
			}
		}
		return nil, false
	}
	msg := &storedMessage{
		Id:          uuid.NewString(),
		Sender:      sender,
		Receiver:    receiver,
		Content:     content,
		SenderType:  senderType,
		ClientMsgId: clientMsgId,
		CreatedAt:   time.Now(),
	}
	s.messages = append(s.messages, msg)
	if clientMsgId != "" {
		s.msgByClientId[clientMsgId] = true
	}
	return msg, true
}

// History 返回两个用户之间的消息（时间升序），并把收到的部分标记已读
func (s *Store) History(ownerId, counterpartId string) []*storedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*storedMessage
	for _, m := range s.messages {
		if (m.Sender == ownerId && m.Receiver == counterpartId) ||
			(m.Sender == counterpartId && m.Receiver == ownerId) {
			if m.Receiver == ownerId {
				m.IsRead = true
			}
			out = append(out, m)
		}
	}
	return out
}

// conversationAgg 会话聚合中间结果
type conversationAgg struct {
	counterpart *User
	last        *storedMessage
	unread      int
}

// Conversations 汇总指定用户的会话摘要（按最后消息时间倒序）
func (s *Store) Conversations(ownerId string) []conversationAgg {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byId := make(map[string]*conversationAgg)
	for _, m := range s.messages {
		var cpId string
		switch ownerId {
		case m.Sender:
			cpId = m.Receiver
		case m.Receiver:
			cpId = m.Sender
		default:
			continue
		}
		agg, ok := byId[cpId]
		if !ok {
			cp, exists := s.users[cpId]
			if !exists {
				continue
			}
			agg = &conversationAgg{counterpart: cp}
			byId[cpId] = agg
		}
		agg.last = m
		if m.Receiver == ownerId && !m.IsRead {
			agg.unread++
		}
	}
	out := make([]conversationAgg, 0, len(byId))
	for _, agg := range byId {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].last.CreatedAt.After(out[j].last.CreatedAt)
	})
	return out
}

// Directory 按条件列出用户
func (s *Store) Directory(filter func(*User) bool) []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if filter(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// AssignedTutors 学生的指派导师
func (s *Store) AssignedTutors(studentId string) []*User {
	s.mu.RLock()
	assigned := s.assignments[studentId]
	s.mu.RUnlock()
	return s.Directory(func(u *User) bool {
		return u.Role == "tutor" && assigned[u.Id]
	})
}

// AssignedStudents 导师名下的学生
func (s *Store) AssignedStudents(tutorId string) []*User {
	s.mu.RLock()
	students := make(map[string]bool)
	for stu, tutors := range s.assignments {
		if tutors[tutorId] {
			students[stu] = true
		}
	}
	s.mu.RUnlock()
	return s.Directory(func(u *User) bool {
		return u.Role == "student" && students[u.Id]
	})
}

// AddNotification 投递一条通知
func (s *Store) AddNotification(userId, title, content string) *storedNotification {
	n := &storedNotification{
		Id:        uuid.NewString(),
		UserId:    userId,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.notifications[userId] = append(s.notifications[userId], n)
	s.mu.Unlock()
	return n
}

// Notifications 返回用户最近的通知（时间倒序，截断到 limit）
func (s *Store) Notifications(userId string, limit int) []*storedNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.notifications[userId]
	out := make([]*storedNotification, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UnreadNotificationCount 返回用户未读通知数
func (s *Store) UnreadNotificationCount(userId string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications[userId] {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkNotificationRead 标记单条通知已读
func (s *Store) MarkNotificationRead(userId, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userId] {
		if n.Id == id {
			n.IsRead = true
			return true
		}
	}
	return false
}

// MarkAllNotificationsRead 标记用户全部通知已读
func (s *Store) MarkAllNotificationsRead(userId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userId] {
		n.IsRead = true
	}
}
