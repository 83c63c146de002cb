package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultResetAfter is how long a success or error banner stays up.
const DefaultResetAfter = 5 * time.Second

var (
	ErrIncomplete = errors.New("contact: required field missing")
	ErrInFlight   = errors.New("contact: submission already in flight")
	ErrDelivery   = errors.New("contact: delivery failed")
	ErrClosed     = errors.New("contact: controller closed")
)

// Relay delivers a contact message on the site owner's behalf.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

type Options struct {
	Relay      Relay
	Recipient  string
	ResetAfter time.Duration
	Logger     *zap.Logger
}

// View is a point in time copy of the controller state for rendering.
type View struct {
	Form   Form
	Status Status
	Banner string
}

// Sending reports whether the submit control should be disabled.
func (v View) Sending() bool { return v.Status == StatusSending }

// Controller owns one visitor's contact form and its submission status.
type Controller struct {
	relay      Relay
	recipient  string
	resetAfter time.Duration
	log        *zap.Logger

	mu     sync.Mutex
	form   Form
	status Status
	// gen identifies the submission the pending reset timer belongs to.
	gen    uint64
	timer  *time.Timer
	closed bool
}

func NewController(opts Options) *Controller {
	if opts.ResetAfter <= 0 {
		opts.ResetAfter = DefaultResetAfter
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		relay:      opts.Relay,
		recipient:  opts.Recipient,
		resetAfter: opts.ResetAfter,
		log:        opts.Logger,
	}
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{Form: c.form, Status: c.status, Banner: c.status.Banner()}
}

// Input applies a single field change. Input is ignored while a
// submission is in flight so the values being sent stay on screen.
func (c *Controller) Input(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSending {
		return ErrInFlight
	}
	return c.form.Set(field, value)
}

// Submit sends f through the relay. It blocks until the relay answers.
//
// An incomplete form is rejected before anything is sent and leaves the
// status alone. A delivered form is cleared; a failed one is kept so the
// visitor can resubmit. Either way the banner falls back to idle after
// the reset delay.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status == StatusSending {
		c.mu.Unlock()
		return ErrInFlight
	}

	c.form = f
	if missing := f.Missing(); len(missing) > 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}

	c.stopTimerLocked()
	c.gen++
	c.status = StatusSending
	msg := f.message(c.recipient)
	c.mu.Unlock()

	// The visitor going away does not cancel a message already on its way.
	err := c.relay.Send(context.WithoutCancel(ctx), msg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = StatusError
		c.log.Error("Contact relay failed",
			zap.String("from_email", msg.FromEmail),
			zap.Error(err))
	} else {
		c.status = StatusSuccess
		c.form = Form{}
		c.log.Info("Contact message sent", zap.String("from_email", msg.FromEmail))
	}

	if !c.closed {
		gen := c.gen
		c.timer = time.AfterFunc(c.resetAfter, func() { c.reset(gen) })
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

func (c *Controller) reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer submission owns the status now.
	if gen != c.gen || c.status == StatusSending {
		return
	}
	c.status = StatusIdle
	c.timer = nil
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Close stops the pending reset timer. An in-flight submission still
// completes but no longer schedules a reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

// Pending reports whether a reset timer is armed.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}
