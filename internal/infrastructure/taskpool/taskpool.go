// Package taskpool 提供轻量的后台任务池
// 用于不需要调用方等待结果的副作用请求（标记已读、触发刷新等）
package taskpool

import (
	"go.uber.org/zap"
)

// task 定义后台任务（纯闭包模式）
type task struct {
	Action func()
}

// taskChan 缓冲通道，用于接收后台任务
var taskChan chan *task

// Submit 提交异步任务（通用入口）
// 通道满时降级为同步执行，任务不丢失
func Submit(action func()) {
	if taskChan == nil {
		action()
		return
	}
	select {
	case taskChan <- &task{Action: action}:
		// 成功放入
	default:
		zap.L().Warn("task channel full, executing synchronously")
		action()
	}
}

// startWorker 启动单个 Worker 消费循环
// panic 时记录日志并重启，保证池子存活
func startWorker() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("taskpool worker panic", zap.Any("recover", r))
			go startWorker()
		}
	}()

	for t := range taskChan {
		if t.Action != nil {
			t.Action()
		}
	}
}

// Init 初始化任务池
// workerNum: 后台协程数量
// bufferSize: 通道缓冲区大小
func Init(workerNum int, bufferSize int) {
	taskChan = make(chan *task, bufferSize)
	for i := 0; i < workerNum; i++ {
		go startWorker()
	}
	zap.L().Info("taskpool workers started", zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
}
