package devserver

import (
	"net/http"
	"strings"

	"tutor_chat_client/pkg/errorx"
	myjwt "tutor_chat_client/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// jwtAuth JWT 认证中间件
// 验证 Access Token 并将用户身份存入上下文
func jwtAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "请先登录",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Token 格式错误，请使用 Bearer Token",
			})
			return
		}

		claims, err := myjwt.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Token 已过期或无效，请重新登录",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// currentUser 从上下文取出已认证的用户身份
func currentUser(c *gin.Context) (userId, role string) {
	return c.GetString("user_id"), c.GetString("role")
}
