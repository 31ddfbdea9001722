// Package session 维护当前登录身份
// 消息子系统只读使用：登录时创建，登出时随客户端一起销毁
package session

import (
	"fmt"
	"time"

	myjwt "tutor_chat_client/pkg/util/jwt"
)

// Role 用户角色
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// Counterpart 返回对端角色
func (r Role) Counterpart() Role {
	if r == RoleStudent {
		return RoleTutor
	}
	return RoleStudent
}

// Session 登录会话身份，字段创建后不再变更
type Session struct {
	UserId string
	Role   Role
	Token  string // 原始 Access Token，REST 和 WebSocket 均以此鉴权
}

// New 从平台签发的 Access Token 构造会话身份
// 客户端不持有签名密钥，只解析声明并做本地过期检查
func New(token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("session: empty token")
	}
	claims, err := myjwt.ParseClaimsUnverified(token)
	if err != nil {
		return nil, fmt.Errorf("session: malformed token: %w", err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("session: token carries no user id")
	}
	role := Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("session: unknown role %q", claims.Role)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("session: token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	return &Session{
		UserId: claims.UserID,
		Role:   role,
		Token:  token,
	}, nil
}
