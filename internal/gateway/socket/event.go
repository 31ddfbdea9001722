// Package socket 实现客户端与消息服务器之间的持久连接
// 职责：
// 1. 每个会话维护唯一一条 WebSocket 连接
// 2. 自动重连（指数退避、次数上限、服务端踢线立即重拨）
// 3. 每次连接建立后发送一次 user_online 宣告
// 4. 把服务端推送事件转发给单一调度循环
package socket

import "encoding/json"

// 连线事件名，双端共用
const (
	// 客户端 → 服务端
	EventUserOnline  = "user_online"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"

	// 服务端 → 客户端
	EventUsersOnline          = "users_online"
	EventReceiveMessage       = "receive_message"
	EventUserTyping           = "user_typing"
	EventUserStoppedTyping    = "user_stopped_typing"
	EventNotificationNew      = "notification:new"
	EventNotificationsUpdated = "notifications:updated"
	EventServerDisconnect     = "server_disconnect"
)

// Event 连线事件信封
// data 为事件相关的 JSON 载荷，无载荷事件（如 user_typing）省略
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent 构造带载荷的事件
func NewEvent(name string, payload any) (*Event, error) {
	if payload == nil {
		return &Event{Event: name}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{Event: name, Data: raw}, nil
}

// Bind 将事件载荷反序列化到目标结构
func (e *Event) Bind(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
