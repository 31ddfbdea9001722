// Package config 提供客户端的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找和环境变量覆盖
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// MainConfig 主配置
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Mode    string `toml:"mode"`    // 运行模式: "dev" 或 "release"
}

// ServerConfig 消息服务器地址配置
type ServerConfig struct {
	BaseURL string `toml:"baseURL" validate:"required,url"` // REST API 基础地址，如 "http://localhost:8000"
	WsURL   string `toml:"wsURL" validate:"required"`       // WebSocket 地址，如 "ws://localhost:8000/ws/chat"
	Token   string `toml:"token"`                           // 平台签发的 Access Token，通常通过环境变量注入
}

// ReconnectConfig 重连策略配置
type ReconnectConfig struct {
	MaxRetries       int `toml:"maxRetries" validate:"min=0"`     // 最大重试次数，超出后进入终态
	InitialDelayMs   int `toml:"initialDelayMs" validate:"min=0"` // 首次重试延迟（毫秒）
	MaxDelayMs       int `toml:"maxDelayMs" validate:"min=0"`     // 重试延迟上限（毫秒）
	HandshakeTimeout int `toml:"handshakeTimeout"`                // WebSocket 握手超时（秒）
	RequestTimeout   int `toml:"requestTimeout"`                  // REST 请求超时（秒）
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// NotifyConfig 通知轮询配置
type NotifyConfig struct {
	PollIntervalSeconds int `toml:"pollIntervalSeconds"` // 未读数轮询间隔（秒），作为推送失效时的兜底
	ListLimit           int `toml:"listLimit"`           // 通知面板拉取条数上限
}

// DevServerConfig 开发服务器配置（仅 cmd/dev_server 使用）
type DevServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	JwtSecret string `toml:"jwtSecret"` // 签发/校验开发 Token 的密钥
}

// Config 客户端总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	ServerConfig    `toml:"serverConfig"`
	ReconnectConfig `toml:"reconnectConfig"`
	LogConfig       `toml:"logConfig"`
	NotifyConfig    `toml:"notifyConfig"`
	DevServerConfig `toml:"devServerConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

var validate = validator.New()

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
// 加载后应用环境变量覆盖，并校验必填字段
func LoadConfig() error {
	if config == nil {
		config = DefaultConfig()
	}
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	loaded := false
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			loaded = true
			break
		}
	}
	if !loaded {
		return fmt.Errorf("could not find configuration file in any of the search paths")
	}

	applyEnvOverrides(config)

	if err := validate.Struct(&config.ServerConfig); err != nil {
		return fmt.Errorf("invalid serverConfig: %w", err)
	}
	if err := validate.Struct(&config.ReconnectConfig); err != nil {
		return fmt.Errorf("invalid reconnectConfig: %w", err)
	}
	return nil
}

// applyEnvOverrides 应用环境变量覆盖
// 服务器地址和 Token 属于部署相关配置，允许通过 .env 或环境变量注入
func applyEnvOverrides(c *Config) {
	// .env 文件不存在时忽略错误，环境变量仍然生效
	_ = godotenv.Load()

	if v := os.Getenv("TUTOR_CHAT_BASE_URL"); v != "" {
		c.ServerConfig.BaseURL = v
	}
	if v := os.Getenv("TUTOR_CHAT_WS_URL"); v != "" {
		c.ServerConfig.WsURL = v
	}
	if v := os.Getenv("TUTOR_CHAT_TOKEN"); v != "" {
		c.ServerConfig.Token = v
	}
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = DefaultConfig()
		_ = LoadConfig()
	}
	return config
}

// DefaultConfig 返回内置默认配置
// 测试代码直接构造 Config 时也以此为基底
func DefaultConfig() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "tutor_chat_client",
			Mode:    "dev",
		},
		ServerConfig: ServerConfig{
			BaseURL: "http://localhost:8000",
			WsURL:   "ws://localhost:8000/ws/chat",
		},
		ReconnectConfig: ReconnectConfig{
			MaxRetries:       5,
			InitialDelayMs:   500,
			MaxDelayMs:       10000,
			HandshakeTimeout: 10,
			RequestTimeout:   15,
		},
		LogConfig: LogConfig{
			LogPath:    "logs",
			FileName:   "logs/client.log",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Level:      "info",
		},
		NotifyConfig: NotifyConfig{
			PollIntervalSeconds: 30,
			ListLimit:           20,
		},
		DevServerConfig: DevServerConfig{
			Host:      "127.0.0.1",
			Port:      8000,
			JwtSecret: "dev-only-secret-do-not-use-in-prod",
		},
	}
}
