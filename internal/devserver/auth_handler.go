package devserver

import (
	"time"

	"tutor_chat_client/pkg/errorx"
	myjwt "tutor_chat_client/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// devLoginRequest 开发登录请求体
type devLoginRequest struct {
	UserId string `json:"userId" binding:"required"`
}

// devLoginHandler 开发登录：给已存在的用户签发 Access Token
// POST /auth/dev-login
// 仅供本地联调，生产登录由平台的认证服务负责
func (s *Server) devLoginHandler(c *gin.Context) {
	var req devLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleParamError(c, err)
		return
	}
	user, ok := s.Store.GetUser(req.UserId)
	if !ok {
		handleError(c, errorx.ErrNotFound)
		return
	}
	token, err := myjwt.GenerateAccessToken(user.Id, user.Role, 24*time.Hour)
	if err != nil {
		handleError(c, err)
		return
	}
	handleSuccess(c, gin.H{"token": token})
}
