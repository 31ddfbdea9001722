package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 全局密钥，由 Init 函数初始化（仅签发/校验方需要，dev_server 使用）
var secret []byte

// Init 初始化 JWT 密钥
func Init(s string) {
	secret = []byte(s)
}

// Claims 自定义 JWT 声明
// 平台签发的 Access Token 携带用户 ID 和角色
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "student" 或 "tutor"
	jwt.RegisteredClaims
}

// GenerateAccessToken 生成 Access Token（dev_server 的开发登录使用）
func GenerateAccessToken(userID, role string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tutor_platform",
			Subject:   "access_token",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken 解析并验证 Token（服务端校验）
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// ParseClaimsUnverified 仅解析声明，不校验签名
// 客户端不持有平台密钥，只需要从 Token 中读出自己的身份；
// 真正的鉴权由服务端在每次请求时完成
func ParseClaimsUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
