package storage

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体，底层使用go-kit/log输出logfmt格式
type Logger struct {
	filename    string        // 日志文件路径，写入io.Writer时为空
	file        *os.File      // 日志文件句柄
	out         io.Writer     // 实际输出目标
	kit         log.Logger    // go-kit logger(已带级别过滤)
	mu          sync.Mutex    // 互斥锁，保证并发安全
	subscribers []chan string // 订阅者通道列表
}

// NewLogger 创建写入文件的日志记录器
// 参数:
//
//	filename: 日志文件路径，为空时写入标准错误
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string) (*Logger, error) {
	if filename == "" {
		return NewWriterLogger(os.Stderr), nil
	}

	// 打开或创建日志文件，权限设置为0644
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &Logger{filename: filename, file: file, out: file}
	l.setLevel(INFO)
	return l, nil
}

// NewWriterLogger 创建写入任意io.Writer的日志记录器
func NewWriterLogger(w io.Writer) *Logger {
	l := &Logger{out: w}
	l.setLevel(INFO)
	return l
}

// SetLevel 设置最低输出级别
func (l *Logger) SetLevel(lvl LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setLevel(lvl)
}

func (l *Logger) setLevel(lvl LogLevel) {
	base := log.NewLogfmtLogger(writerFunc(l.write))
	base = log.With(base, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch lvl {
	case DEBUG:
		opt = level.AllowDebug()
	case INFO:
		opt = level.AllowInfo()
	case WARNING:
		opt = level.AllowWarn()
	default:
		opt = level.AllowError()
	}
	l.kit = level.NewFilter(base, opt)
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.out = io.Discard
		return err
	}
	return nil
}

// Reopen 重新打开一个文件
// 参数：
// filename：新文件的路径
// 返回值：
// error：重建文件时的错误
func (l *Logger) Reopen(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reopen(filename)
}

func (l *Logger) reopen(filename string) error {
	// 关闭旧文件
	if l.file != nil {
		_ = l.file.Close()
	}

	// 重新打开
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		l.out = io.Discard
		return err
	}
	l.filename = filename
	l.file = file
	l.out = file
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
//	keyvals: 附加的键值对
func (l *Logger) Log(lvl LogLevel, message string, keyvals ...interface{}) {
	l.mu.Lock()         // 加锁保证线程安全
	defer l.mu.Unlock() // 方法结束时自动解锁

	kv := append([]interface{}{"msg", message}, keyvals...)
	switch lvl {
	case DEBUG:
		_ = level.Debug(l.kit).Log(kv...)
	case INFO:
		_ = level.Info(l.kit).Log(kv...)
	case WARNING:
		_ = level.Warn(l.kit).Log(kv...)
	case FATAL:
		_ = level.Error(l.kit).Log(append(kv, "fatal", true)...)
	default:
		_ = level.Error(l.kit).Log(kv...)
	}
}

// write 由go-kit在持有l.mu时调用
func (l *Logger) write(p []byte) (int, error) {
	n, err := l.out.Write(p)

	// 通知所有订阅者
	entry := string(p)
	for _, ch := range l.subscribers {
		select {
		case ch <- entry: // 尝试发送日志条目
		default: // 如果通道已满则跳过
		}
	}
	return n, err
}

// CheckRotate 文件超过maxSize字节时轮转
func (l *Logger) CheckRotate(maxSize int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil || maxSize <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() <= maxSize {
		return nil
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	_ = l.file.Close()
	l.file = nil
	rotated := fmt.Sprintf("%s.%s", l.filename, time.Now().Format("20060102150405"))
	if err := os.Rename(l.filename, rotated); err != nil {
		return err
	}
	return l.reopen(l.filename)
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan string, 100)
	// 将新通道加入订阅者列表
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// Unsubscribe 取消订阅并关闭通道
func (l *Logger) Unsubscribe(ch <-chan string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sub := range l.subscribers {
		if sub == ch {
			l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// String 实现LogLevel的String方法
// 返回值:
//
//	string: 日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析配置中的级别名称
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("未知的日志级别: %q", s)
}

// ParseSize 计算形如 "10 * 1024 * 1024" 的乘法表达式
func ParseSize(expr string) (int64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, nil
	}
	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("无效的大小表达式 %q: %w", expr, err)
		}
		result *= num
	}
	return result, nil
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// 以下是快捷日志方法
func (l *Logger) Debug(msg string, keyvals ...interface{})   { l.Log(DEBUG, msg, keyvals...) }   // 记录调试信息
func (l *Logger) Info(msg string, keyvals ...interface{})    { l.Log(INFO, msg, keyvals...) }    // 记录普通信息
func (l *Logger) Warning(msg string, keyvals ...interface{}) { l.Log(WARNING, msg, keyvals...) } // 记录警告信息
func (l *Logger) Error(msg string, keyvals ...interface{})   { l.Log(ERROR, msg, keyvals...) }   // 记录错误信息
func (l *Logger) Fatal(msg string, keyvals ...interface{})   { l.Log(FATAL, msg, keyvals...) }   // 记录致命错误
