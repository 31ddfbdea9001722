package devserver

import (
	"fmt"

	"tutor_chat_client/internal/infrastructure/logger"
	myjwt "tutor_chat_client/pkg/util/jwt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server 开发消息服务器
type Server struct {
	Store *Store
	Hub   *Hub

	engine *gin.Engine
}

// New 创建开发服务器并注册全部路由
func New(jwtSecret string) *Server {
	myjwt.Init(jwtSecret)

	store := NewStore()
	s := &Server{
		Store: store,
		Hub:   NewHub(store),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	engine.POST("/auth/dev-login", s.devLoginHandler)
	engine.GET("/ws/chat", s.wsChatHandler)

	auth := engine.Group("/", jwtAuth())
	auth.GET("/messages/conversations", s.conversationsHandler)
	auth.GET("/messages/conversation/:counterpartId", s.historyHandler)
	auth.POST("/messages/send", s.sendMessageHandler)
	auth.GET("/tutor/public", s.publicTutorsHandler)
	auth.GET("/tutor/assigned-students", s.assignedStudentsHandler)
	auth.GET("/student/assigned-tutors", s.assignedTutorsHandler)
	auth.GET("/notifications", s.notificationsHandler)
	auth.GET("/notifications/unread/count", s.unreadCountHandler)
	auth.PUT("/notifications/:id/read", s.markReadHandler)
	auth.PUT("/notifications/read-all", s.markAllReadHandler)

	s.engine = engine
	return s
}

// Engine 返回底层 gin 引擎（测试用 httptest.NewServer 包装）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 监听并启动服务
func (s *Server) Run(host string, port int) error {
	return s.engine.Run(fmt.Sprintf("%s:%d", host, port))
}
