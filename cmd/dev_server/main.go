package main

import (
	"log"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/devserver"
	"tutor_chat_client/internal/infrastructure/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 创建开发服务器并填充演示数据
	srv := devserver.New(conf.DevServerConfig.JwtSecret)
	srv.Store.Seed()
	zap.L().Info("开发服务器初始化成功")

	// 4. 启动服务
	host := conf.DevServerConfig.Host
	port := conf.DevServerConfig.Port
	zap.L().Info("开发服务器启动", zap.String("host", host), zap.Int("port", port))
	if err := srv.Run(host, port); err != nil {
		zap.L().Fatal("server running fault", zap.Error(err))
	}
}
