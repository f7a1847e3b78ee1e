// Package mail defines outbound email messages and the asynchronous
// dispatcher that hands them to a provider.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message through a concrete provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LoginCodeMessage builds the email carrying a one-time login code.
func LoginCodeMessage(to, code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		To:      to,
		Subject: "Код входа в Buh AI Assistant",
		Text:    fmt.Sprintf("Ваш код входа: %s\nКод действует %d минут. Если вы не запрашивали код, проигнорируйте это письмо.", code, minutes),
		HTML:    fmt.Sprintf(`<p>Ваш код входа: <b>%s</b></p><p>Код действует %d минут.</p>`, code, minutes),
	}
}

// LogSender writes messages to the log instead of sending them. Development only.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("mail (log provider)", "to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}

// Dispatcher sends mail on a fixed pool of workers. Enqueue never blocks.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, workers, queueSize int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue schedules msg for delivery. It returns false and drops the message
// when the queue is full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("mail dispatcher closed, dropping message", "to", maskEmail(msg.To))
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		slog.Warn("mail queue full, dropping message", "to", maskEmail(msg.To))
		return false
	}
}

// Close stops accepting work and waits for queued messages to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			slog.Error("mail delivery failed", "to", maskEmail(msg.To), "err", err)
		}
		cancel()
	}
}

// maskEmail keeps logs useful without writing full addresses.
func maskEmail(email string) string {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + host
}
