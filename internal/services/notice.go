package services

import "time"

// DefaultNoticeTTL is how long a message stays visible without a newer one.
const DefaultNoticeTTL = 5 * time.Second

// One user-visible message.
type Notice struct {
	Message   string
	Kind      ErrorKind
	ExpiresAt time.Time
}

// NoticeBoard holds at most one message. Showing a message replaces the
// previous one and restarts the dismiss deadline.
type NoticeBoard struct {
	ttl     time.Duration
	now     func() time.Time
	current *Notice
}

func NewNoticeBoard(ttl time.Duration, now func() time.Time) *NoticeBoard {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if now == nil {
		now = time.Now
	}
	return &NoticeBoard{ttl: ttl, now: now}
}

func (b *NoticeBoard) Show(message string, kind ErrorKind) {
	b.current = &Notice{
		Message:   message,
		Kind:      kind,
		ExpiresAt: b.now().Add(b.ttl),
	}
}

// ShowError posts the user message for err.
func (b *NoticeBoard) ShowError(err error) {
	b.Show(UserMessage(err), Classify(err))
}

// Current returns the visible message. Expired messages are dropped.
func (b *NoticeBoard) Current() (Notice, bool) {
	if b.current == nil {
		return Notice{}, false
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Notice{}, false
	}
	return *b.current, true
}

func (b *NoticeBoard) Dismiss() { b.current = nil }
