// Package conversation 维护会话列表与当前线程的客户端投影
// 数据来源有两路：REST 拉取的持久化历史/摘要，以及连线推送的实时消息；
// 所有状态仅存在于会话内存中，服务端是投递与持久化的唯一权威
package conversation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/internal/gateway/socket"
	"tutor_chat_client/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageAPI 会话相关的 REST 接口（*api.RestClient 实现）
type MessageAPI interface {
	GetConversations(ctx context.Context) ([]respond.ConversationSummaryRespond, error)
	GetConversation(ctx context.Context, counterpartId string) ([]respond.MessageRespond, error)
	SendMessage(ctx context.Context, req request.SendMessageRequest) error
	GetPublicTutors(ctx context.Context) ([]respond.CounterpartRespond, error)
	GetAssignedStudents(ctx context.Context) ([]respond.CounterpartRespond, error)
	GetAssignedTutors(ctx context.Context) ([]respond.CounterpartRespond, error)
}

// Pusher 连线事件发送接口（*socket.ConnManager 实现）
type Pusher interface {
	Send(ev *socket.Event) error
}

// Message 线程内的一条消息
type Message struct {
	SenderId    string
	ReceiverId  string
	Content     string
	SenderType  string
	ClientMsgId string // 客户端生成的幂等 ID，用于对账回显
	CreatedAt   time.Time
}

// Summary 会话摘要（列表视图投影），按对端 ID 唯一
type Summary struct {
	CounterpartId   string
	Name            string
	Email           string
	Avatar          string
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int
}

// Store 会话存储
// 写入方只有客户端的调度循环和界面动作，读写锁保护并发读取
type Store struct {
	sess *session.Session
	api  MessageAPI
	push Pusher

	mu        sync.RWMutex
	summaries map[string]*Summary
	activeId  string
	thread    []Message
	// gen 选择代数：每次 Select 递增，历史响应返回时代数不符则作废，
	// 防止快速切换会话时旧响应覆盖新线程
	gen uint64
}

// NewStore 创建会话存储
func NewStore(sess *session.Session, api MessageAPI, push Pusher) *Store {
	return &Store{
		sess:      sess,
		api:       api,
		push:      push,
		summaries: make(map[string]*Summary),
	}
}

// LoadConversations 拉取会话摘要列表，整体替换本地快照
func (s *Store) LoadConversations(ctx context.Context) error {
	list, err := s.api.GetConversations(ctx)
	if err != nil {
		return err
	}
	next := make(map[string]*Summary, len(list))
	for _, item := range list {
		next[item.CounterpartId] = &Summary{
			CounterpartId:   item.CounterpartId,
			Name:            item.User.Name,
			Email:           item.User.Email,
			Avatar:          item.User.Avatar,
			LastMessage:     item.LastMessage,
			LastMessageTime: parseTime(item.LastMessageTime),
			UnreadCount:     item.UnreadCount,
		}
	}
	s.mu.Lock()
	s.summaries = next
	// 正在查看的会话未读数保持归零
	if cur, ok := s.summaries[s.activeId]; ok {
		cur.UnreadCount = 0
	}
	s.mu.Unlock()
	return nil
}

// LoadDirectory 拉取允许对话的对象目录并并入摘要列表
// 学生端：指派导师 + 公开导师目录；导师端：名下学生
// 已存在会话的对端不会被重复加入
func (s *Store) LoadDirectory(ctx context.Context) error {
	var entries []respond.CounterpartRespond
	switch s.sess.Role {
	case session.RoleStudent:
		assigned, err := s.api.GetAssignedTutors(ctx)
		if err != nil {
			return err
		}
		public, err := s.api.GetPublicTutors(ctx)
		if err != nil {
			return err
		}
		entries = append(assigned, public...)
	case session.RoleTutor:
		assigned, err := s.api.GetAssignedStudents(ctx)
		if err != nil {
			return err
		}
		entries = assigned
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.Id == "" || e.Id == s.sess.UserId {
			continue
		}
		if _, exists := s.summaries[e.Id]; exists {
			continue
		}
		s.summaries[e.Id] = &Summary{
			CounterpartId: e.Id,
			Name:          e.Name,
			Email:         e.Email,
			Avatar:        e.Avatar,
		}
	}
	return nil
}

// Select 激活指定会话
// 本地立即归零未读数（不等服务端确认），再拉取历史替换线程；
// 代数守卫保证过期的历史响应不会覆盖更新的线程
func (s *Store) Select(ctx context.Context, counterpartId string) error {
	s.mu.Lock()
	s.activeId = counterpartId
	s.gen++
	gen := s.gen
	s.thread = nil
	if sum, ok := s.summaries[counterpartId]; ok {
		sum.UnreadCount = 0
	} else {
		// 从未有过往来的对端：空线程，不是错误
		s.summaries[counterpartId] = &Summary{CounterpartId: counterpartId, Name: counterpartId}
	}
	s.mu.Unlock()

	history, err := s.api.GetConversation(ctx, counterpartId)
	if err != nil {
		return err
	}

	fetched := make([]Message, 0, len(history))
	seen := make(map[string]struct{}, len(history))
	for _, h := range history {
		fetched = append(fetched, Message{
			SenderId:    h.Sender,
			ReceiverId:  h.Receiver,
			Content:     h.Content,
			SenderType:  h.SenderType,
			ClientMsgId: h.ClientMsgId,
			CreatedAt:   parseTime(h.CreatedAt),
		})
		if h.ClientMsgId != "" {
			seen[h.ClientMsgId] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.activeId != counterpartId {
		// 用户已切换到别的会话，丢弃本次响应
		return nil
	}
	// 拉取期间到达的推送/乐观条目按幂等 ID 对账后保留在尾部
	for _, m := range s.thread {
		if m.ClientMsgId != "" {
			if _, dup := seen[m.ClientMsgId]; dup {
				continue
			}
		}
		fetched = append(fetched, m)
	}
	s.thread = fetched
	return nil
}

// OnPushMessage 处理服务端推送的实时消息
// 摘要的最后消息字段无条件更新；发送方是当前会话时追加线程（按幂等 ID 去重），
// 否则该会话未读数加一——无论用户正在看哪个线程，列表都保持实时
func (s *Store) OnPushMessage(p respond.ReceiveMessageRespond) {
	ts := parseTime(p.Timestamp)
	if ts.IsZero() {
		ts = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sum, ok := s.summaries[p.SenderId]
	if !ok {
		sum = &Summary{CounterpartId: p.SenderId, Name: p.SenderId}
		s.summaries[p.SenderId] = sum
	}
	sum.LastMessage = p.Content
	sum.LastMessageTime = ts

	if p.SenderId == s.activeId {
		for _, m := range s.thread {
			if p.ClientMsgId != "" && m.ClientMsgId == p.ClientMsgId {
				// 服务器回显的自己这条消息已经乐观追加过了
				return
			}
		}
		s.thread = append(s.thread, Message{
			SenderId:    p.SenderId,
			ReceiverId:  s.sess.UserId,
			Content:     p.Content,
			SenderType:  p.SenderType,
			ClientMsgId: p.ClientMsgId,
			CreatedAt:   ts,
		})
		return
	}
	sum.UnreadCount++
}

// SendMessage 双写发送
// 先乐观追加本地线程，再走连线推送 + REST 持久化；
// REST 失败时乐观条目保留，错误交由界面以横幅展示
func (s *Store) SendMessage(ctx context.Context, receiverId, content string) error {
	msg := Message{
		SenderId:    s.sess.UserId,
		ReceiverId:  receiverId,
		Content:     content,
		SenderType:  string(s.sess.Role),
		ClientMsgId: uuid.NewString(),
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	if s.activeId == receiverId {
		s.thread = append(s.thread, msg)
	}
	sum, ok := s.summaries[receiverId]
	if !ok {
		sum = &Summary{CounterpartId: receiverId, Name: receiverId}
		s.summaries[receiverId] = sum
	}
	sum.LastMessage = content
	sum.LastMessageTime = msg.CreatedAt
	s.mu.Unlock()

	receiverType := string(s.sess.Role.Counterpart())

	ev, err := socket.NewEvent(socket.EventSendMessage, request.ChatMessageRequest{
		SenderId:     msg.SenderId,
		ReceiverId:   receiverId,
		Content:      content,
		SenderType:   msg.SenderType,
		ReceiverType: receiverType,
		ClientMsgId:  msg.ClientMsgId,
	})
	if err == nil {
		if perr := s.push.Send(ev); perr != nil {
			// 推送失败不致命，REST 持久化仍会送达
			zap.L().Warn("push send_message failed", zap.Error(perr))
		}
	}

	return s.api.SendMessage(ctx, request.SendMessageRequest{
		ReceiverId:   receiverId,
		Content:      content,
		SenderType:   msg.SenderType,
		ReceiverType: receiverType,
		ClientMsgId:  msg.ClientMsgId,
	})
}

// Active 返回当前激活的对端 ID，未选择时为空串
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeId
}

// Thread 返回当前线程的消息快照（到达序，不重排）
func (s *Store) Thread() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.thread))
	copy(out, s.thread)
	return out
}

// ThreadLen 返回当前线程的消息数
func (s *Store) ThreadLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.thread)
}

// SummaryOf 返回指定对端的摘要快照
func (s *Store) SummaryOf(counterpartId string) (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[counterpartId]
	if !ok {
		return Summary{}, false
	}
	return *sum, true
}

// List 返回全部摘要，按最后消息时间倒序，无消息的目录项按名称排在后面
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.summaries))
	for _, sum := range s.summaries {
		out = append(out, *sum)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].LastMessageTime, out[j].LastMessageTime
		if ti.IsZero() != tj.IsZero() {
			return !ti.IsZero()
		}
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Search 纯客户端过滤：大小写不敏感的名称/邮箱子串匹配，不触发网络请求
func (s *Store) Search(q string) []Summary {
	q = strings.ToLower(strings.TrimSpace(q))
	all := s.List()
	if q == "" {
		return all
	}
	out := make([]Summary, 0, len(all))
	for _, sum := range all {
		if strings.Contains(strings.ToLower(sum.Name), q) ||
			strings.Contains(strings.ToLower(sum.Email), q) {
			out = append(out, sum)
		}
	}
	return out
}

// parseTime 解析服务端的 RFC3339 时间串，失败时返回零值
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
