package redis

import (
	"go.uber.org/zap"
)

// workerPool 固定数量的后台协程消费缓存任务
type workerPool struct {
	tasks chan func()
}

// newWorkerPool 启动 workerNum 个 worker，通道缓冲区大小为 bufferSize
func newWorkerPool(workerNum, bufferSize int) *workerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	p := &workerPool{tasks: make(chan func(), bufferSize)}
	for i := 0; i < workerNum; i++ {
		go p.startWorker()
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// startWorker 启动单个 Worker 消费循环
func (p *workerPool) startWorker() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
			go p.startWorker() // 重启
		}
	}()

	for task := range p.tasks {
		if task != nil {
			task()
		}
	}
}

// submit 通道已满时降级为同步执行
func (p *workerPool) submit(action func()) {
	select {
	case p.tasks <- action:
	default:
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		action()
	}
}
