package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/infrastructure/logger"
	"tutor_chat_client/internal/infrastructure/taskpool"
	"tutor_chat_client/internal/service/chat"
	"tutor_chat_client/internal/session"

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

	// 3. 初始化后台任务池
	taskpool.Init(2, 64)

	// 4. 构造会话身份（Token 来自配置或 TUTOR_CHAT_TOKEN 环境变量）
	sess, err := session.New(conf.ServerConfig.Token)
	if err != nil {
		fmt.Println("登录失败:", err)
		fmt.Println("请通过 TUTOR_CHAT_TOKEN 注入有效的 Access Token（dev_server 的 /auth/dev-login 可签发）")
		os.Exit(1)
	}
	zap.L().Info("会话初始化成功", zap.String("user", sess.UserId), zap.String("role", string(sess.Role)))

	// 5. 创建并启动客户端
	client, err := chat.NewChatClient(conf, sess, chat.Callbacks{
		Banner: func(text string) {
			if text == "" {
				fmt.Println("[连接] 已恢复")
			} else {
				fmt.Println("[连接]", text)
			}
		},
		Scroll: func() {
			// 终端场景下新消息直接打印，无需滚动动作
		},
		PeerTyping: func(typing bool) {
			if typing {
				fmt.Println("[对方正在输入…]")
			}
		},
		UnreadBadge: func(count int) {
			fmt.Printf("[通知] 未读 %d 条\n", count)
		},
	})
	if err != nil {
		zap.L().Fatal("创建客户端失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	client.Start(ctx)
	cancel()
	defer client.Close()
	zap.L().Info("客户端启动成功")

	// 6. 信号监听 + 命令循环
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go repl(client)

	<-quit
	zap.L().Info("客户端退出")
}

// repl 简单的终端命令循环
func repl(client *chat.ChatClient) {
	fmt.Println("命令: list | open <对端ID> | send <内容> | type | who | notify | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

		switch cmd {
		case "list":
			for _, sum := range client.Conversations.List() {
				online := " "
				if client.Presence.IsOnline(sum.CounterpartId) {
					online = "*"
				}
				fmt.Printf("%s %-12s %-20s 未读:%d  %s\n",
					online, sum.CounterpartId, sum.Name, sum.UnreadCount, sum.LastMessage)
			}

		case "open":
			if err := client.OpenConversation(ctx, arg); err != nil {
				fmt.Println("打开会话失败:", err)
				break
			}
			for _, m := range client.Conversations.Thread() {
				fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.SenderId, m.Content)
			}

		case "send":
			if err := client.Send(ctx, arg); err != nil {
				fmt.Println("发送失败:", err)
			}

		case "type":
			client.Keystroke()

		case "who":
			fmt.Println("在线:", client.Presence.Snapshot())

		case "notify":
			client.Notifications.SetPanelOpen(true)
			time.Sleep(500 * time.Millisecond)
			for _, n := range client.Notifications.Items() {
				mark := " "
				if !n.IsRead {
					mark = "●"
				}
				fmt.Printf("%s %s: %s\n", mark, n.Title, n.Content)
			}
			client.Notifications.SetPanelOpen(false)

		case "quit":
			cancel()
			_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			return

		default:
			fmt.Println("未知命令:", cmd)
		}
		cancel()
	}
}
