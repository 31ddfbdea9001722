package devserver

import (
	"sync"
	"time"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/internal/gateway/socket"
	"tutor_chat_client/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// wsClient 一条已升级的客户端连接
type wsClient struct {
	userId string
	conn   *websocket.Conn
	send   chan *socket.Event
	once   sync.Once
}

// close 关闭发送通道和底层连接
func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// writePump 把 send 通道中的事件写到连接上
func (c *wsClient) writePump() {
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			zap.L().Debug("devserver write failed", zap.String("user", c.userId), zap.Error(err))
			return
		}
	}
}

// enqueue 非阻塞投递，慢客户端直接丢弃
func (c *wsClient) enqueue(ev *socket.Event) {
	select {
	case c.send <- ev:
	default:
		zap.L().Warn("devserver client send buffer full, dropping", zap.String("user", c.userId))
	}
}

// Hub 在线客户端注册表
// 在线状态以 user_online 宣告为准：连接升级后未宣告的客户端不算在线
type Hub struct {
	store *Store

	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewHub 创建 Hub
func NewHub(store *Store) *Hub {
	return &Hub{
		store:   store,
		clients: make(map[string]*wsClient),
	}
}

// Announce 处理 user_online 宣告：注册客户端并向所有在线者广播全量名单
func (h *Hub) Announce(c *wsClient) {
	h.mu.Lock()
	if old, ok := h.clients[c.userId]; ok && old != c {
		// 同一用户的新连接顶掉旧连接
		old.close()
	}
	h.clients[c.userId] = c
	h.mu.Unlock()
	h.broadcastPresence()
}

// Remove 连接断开时移除客户端并重新广播名单
func (h *Hub) Remove(c *wsClient) {
	h.mu.Lock()
	cur, ok := h.clients[c.userId]
	if ok && cur == c {
		delete(h.clients, c.userId)
	}
	h.mu.Unlock()
	c.close()
	if ok && cur == c {
		h.broadcastPresence()
	}
}

// broadcastPresence 向所有在线客户端广播全量在线名单（整体替换语义）
func (h *Hub) broadcastPresence() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	targets := make([]*wsClient, 0, len(h.clients))
	for id, c := range h.clients {
		ids = append(ids, id)
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	ev, err := socket.NewEvent(socket.EventUsersOnline, ids)
	if err != nil {
		return
	}
	for _, c := range targets {
		c.enqueue(ev)
	}
}

// DeliverMessage 把一条已落库的新消息推给接收方（在线时）
func (h *Hub) DeliverMessage(msg *storedMessage) {
	h.mu.RLock()
	receiver, ok := h.clients[msg.Receiver]
	h.mu.RUnlock()
	if !ok {
		return
	}
	ev, err := socket.NewEvent(socket.EventReceiveMessage, respond.ReceiveMessageRespond{
		SenderId:    msg.Sender,
		Content:     msg.Content,
		Timestamp:   msg.CreatedAt.Format(time.RFC3339),
		SenderType:  msg.SenderType,
		ClientMsgId: msg.ClientMsgId,
	})
	if err != nil {
		return
	}
	receiver.enqueue(ev)
}

// RelayTyping 把输入状态转发给接收方
func (h *Hub) RelayTyping(req request.TypingRequest, stopped bool) {
	h.mu.RLock()
	receiver, ok := h.clients[req.ReceiverId]
	h.mu.RUnlock()
	if !ok {
		return
	}
	name := socket.EventUserTyping
	if stopped {
		name = socket.EventUserStoppedTyping
	}
	ev, err := socket.NewEvent(name, nil)
	if err != nil {
		return
	}
	receiver.enqueue(ev)
}

// PushNotificationNew 通知接收方有新通知
func (h *Hub) PushNotificationNew(userId string) {
	h.mu.RLock()
	receiver, ok := h.clients[userId]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if ev, err := socket.NewEvent(socket.EventNotificationNew, nil); err == nil {
		receiver.enqueue(ev)
	}
}

// Kick 服务端主动断开指定用户（测试踢线场景）
// 先发 server_disconnect 事件，随后关闭连接
func (h *Hub) Kick(userId string) {
	h.mu.RLock()
	c, ok := h.clients[userId]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if ev, err := socket.NewEvent(socket.EventServerDisconnect, nil); err == nil {
		c.enqueue(ev)
	}
	// 给写协程留出送达时间
	time.AfterFunc(100*time.Millisecond, func() { h.Remove(c) })
}

// Online 查询指定用户是否在线（测试辅助）
func (h *Hub) Online(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userId]
	return ok
}

// newWsClient 构造客户端连接包装
func newWsClient(userId string, conn *websocket.Conn) *wsClient {
	return &wsClient{
		userId: userId,
		conn:   conn,
		send:   make(chan *socket.Event, constants.CHANNEL_SIZE),
	}
}
