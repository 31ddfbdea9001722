package constants

const (
	CHANNEL_SIZE          = 100 // 事件分发/发送通道大小
	TYPING_IDLE_SECONDS   = 3   // 停止输入判定的空闲时长（秒）
	NOTIFY_POLL_SECONDS   = 30  // 通知未读数轮询间隔默认值（秒）
	HANDSHAKE_TIMEOUT_SEC = 10  // WebSocket 握手超时默认值（秒）
	REQUEST_TIMEOUT_SEC   = 15  // REST 请求超时默认值（秒）
)
