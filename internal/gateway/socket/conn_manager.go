package socket

import (
	"net/url"
	"sync"
	"time"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/session"
	"tutor_chat_client/pkg/constants"
	"tutor_chat_client/pkg/errorx"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// State 连接状态
type State int8

const (
	StateConnecting   State = iota // 初次建连中
	StateOnline                    // 已连接
	StateReconnecting              // 断线重连中
	StateFailed                    // 重试耗尽，终态
	StateClosed                    // 主动关闭（登出）
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOnline:
		return "online"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ConnManager 持久连接管理器
// 由会话上下文显式构造并持有，生命周期与登录会话一致，不做包级单例
type ConnManager struct {
	wsURL  string
	userId string

	dialer *websocket.Dialer
	reconn config.ReconnectConfig

	// Transmit 服务端推送事件出口，由客户端的单一调度循环消费
	Transmit chan *Event
	sendCh   chan *Event

	onState func(State)

	mu    sync.Mutex
	conn  *websocket.Conn
	state State

	done chan struct{}
	once sync.Once
}

// NewConnManager 创建连接管理器
// onState 在状态变化时回调（界面横幅据此切换），可以为 nil
func NewConnManager(cfg *config.Config, sess *session.Session, onState func(State)) (*ConnManager, error) {
	u, err := url.Parse(cfg.ServerConfig.WsURL)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "wsURL 无法解析")
	}
	q := u.Query()
	q.Set("token", sess.Token)
	u.RawQuery = q.Encode()

	handshake := cfg.ReconnectConfig.HandshakeTimeout
	if handshake <= 0 {
		handshake = constants.HANDSHAKE_TIMEOUT_SEC
	}

	return &ConnManager{
		wsURL:  u.String(),
		userId: sess.UserId,
		dialer: &websocket.Dialer{
			HandshakeTimeout: time.Duration(handshake) * time.Second,
		},
		reconn:   cfg.ReconnectConfig,
		Transmit: make(chan *Event, constants.CHANNEL_SIZE),
		sendCh:   make(chan *Event, constants.CHANNEL_SIZE),
		onState:  onState,
		state:    StateConnecting,
		done:     make(chan struct{}),
	}, nil
}

// Start 启动连接主循环
func (m *ConnManager) Start() {
	go m.run()
}

// State 返回当前连接状态
func (m *ConnManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Send 异步发送事件
// 发送失败不会断开连接；通道满（长时间离线积压）时返回错误由调用方提示
func (m *ConnManager) Send(ev *Event) error {
	select {
	case <-m.done:
		return errorx.ErrConnLost
	default:
	}
	select {
	case m.sendCh <- ev:
		return nil
	default:
		return errorx.ErrConnLost
	}
}

// Close 主动关闭连接（登出时调用）
func (m *ConnManager) Close() {
	m.once.Do(func() {
		close(m.done)
		m.mu.Lock()
		if m.conn != nil {
			_ = m.conn.Close()
		}
		m.state = StateClosed
		m.mu.Unlock()
	})
}

// run 连接主循环：建连 → 宣告上线 → 收发 → 断线后按策略重连
// 服务端踢线（server_disconnect 事件或 GoingAway 关闭帧）立即重拨，
// 普通断线走退避定时器；拨号连续失败 MaxRetries 次后进入终态
func (m *ConnManager) run() {
	bo := m.newBackOff()
	for {
		if m.isClosed() {
			return
		}

		conn, _, err := m.dialer.Dial(m.wsURL, nil)
		if err != nil {
			zap.L().Warn("ws dial failed", zap.Error(err))
			m.setState(StateReconnecting)
			if !m.waitBackOff(bo) {
				return
			}
			continue
		}

		bo.Reset()
		m.setConn(conn)
		m.setState(StateOnline)
		m.announce(conn)

		kicked := m.pump(conn)
		m.setConn(nil)
		if m.isClosed() {
			return
		}

		m.setState(StateReconnecting)
		if kicked {
			// 服务端主动断开：不等退避定时器，立即重拨
			zap.L().Info("server initiated disconnect, redialing immediately")
			bo.Reset()
			continue
		}
		if !m.waitBackOff(bo) {
			return
		}
	}
}

// announce 宣告上线
// 每次成功建连后恰好发送一次，服务端据此重建本客户端的在线状态
func (m *ConnManager) announce(conn *websocket.Conn) {
	ev, err := NewEvent(EventUserOnline, request.UserOnlineRequest{UserId: m.userId})
	if err != nil {
		zap.L().Error("build user_online event failed", zap.Error(err))
		return
	}
	if err := conn.WriteJSON(ev); err != nil {
		zap.L().Error("send user_online failed", zap.Error(err))
	}
}

// pump 在当前连接上运行收发循环，连接死亡后返回
// 返回值表示是否为服务端主动断开
func (m *ConnManager) pump(conn *websocket.Conn) (kicked bool) {
	readDone := make(chan error, 1)
	kickCh := make(chan struct{}, 1)

	go func() {
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseServiceRestart) {
					select {
					case kickCh <- struct{}{}:
					default:
					}
				}
				readDone <- err
				return
			}
			if ev.Event == EventServerDisconnect {
				select {
				case kickCh <- struct{}{}:
				default:
				}
				readDone <- nil
				return
			}
			select {
			case m.Transmit <- &ev:
			case <-m.done:
				readDone <- nil
				return
			}
		}
	}()

	for {
		select {
		case ev := <-m.sendCh:
			// 单次发送失败只记录并继续，真正的连接死亡由读侧感知
			if err := conn.WriteJSON(ev); err != nil {
				zap.L().Error("ws write failed", zap.String("event", ev.Event), zap.Error(err))
			}
		case err := <-readDone:
			if err != nil {
				zap.L().Warn("ws read closed", zap.Error(err))
			}
			_ = conn.Close()
			select {
			case <-kickCh:
				return true
			default:
				return false
			}
		case <-m.done:
			_ = conn.Close()
			<-readDone
			return false
		}
	}
}

// waitBackOff 等待下一次重试
// 返回 false 表示重试耗尽（进入终态）或连接已被主动关闭
func (m *ConnManager) waitBackOff(bo backoff.BackOff) bool {
	d := bo.NextBackOff()
	if d == backoff.Stop {
		zap.L().Error("reconnect attempts exhausted")
		m.setState(StateFailed)
		return false
	}
	select {
	case <-time.After(d):
		return true
	case <-m.done:
		return false
	}
}

func (m *ConnManager) newBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Duration(m.reconn.InitialDelayMs) * time.Millisecond
	eb.MaxInterval = time.Duration(m.reconn.MaxDelayMs) * time.Millisecond
	// 次数上限由 WithMaxRetries 控制，不按总时长截断
	eb.MaxElapsedTime = 0
	return backoff.WithMaxRetries(eb, uint64(m.reconn.MaxRetries))
}

func (m *ConnManager) setConn(conn *websocket.Conn) {
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
}

func (m *ConnManager) setState(s State) {
	m.mu.Lock()
	changed := m.state != s
	if m.state == StateClosed || m.state == StateFailed {
		// 终态不再迁移
		changed = false
	} else {
		m.state = s
	}
	m.mu.Unlock()
	if changed && m.onState != nil {
		m.onState(s)
	}
}

func (m *ConnManager) isClosed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}
