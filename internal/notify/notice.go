package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Codes shared by the components that raise notices.
const (
	CodeLoginRequired = "login_required"
	CodePhoneRequired = "phone_required"
	CodeCartEmpty     = "cart_empty"
	CodeInvalidRating = "invalid_rating"
	CodeOrderPlaced   = "order_placed"
	CodeDispatched    = "dispatched"
	CodeRated         = "rated"
	CodeCommented     = "commented"
	CodeFailed        = "failed"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func Info(code, msg string) Notice    { return Notice{Kind: KindInfo, Code: code, Message: msg} }
func Warning(code, msg string) Notice { return Notice{Kind: KindWarning, Code: code, Message: msg} }
func Error(err error) Notice          { return Notice{Kind: KindError, Code: CodeFailed, Message: err.Error()} }

// Notifier delivers user-facing notices to the presentation layer.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

type recorderKey struct{}

// WithRecorder scopes a recorder to one request.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	r := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, r), r
}

// RecorderFrom returns the recorder scoped to ctx, or nil.
func RecorderFrom(ctx context.Context) *Recorder {
	r, _ := ctx.Value(recorderKey{}).(*Recorder)
	return r
}

// RequestNotifier logs every notice and hands it to the recorder scoped to the
// request, if there is one.
type RequestNotifier struct {
	log *slog.Logger
}

func NewRequestNotifier(log *slog.Logger) *RequestNotifier {
	return &RequestNotifier{log: log}
}

func (n *RequestNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	switch notice.Kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	n.log.Log(ctx, level, "notice", "kind", notice.Kind, "code", notice.Code, "message", notice.Message)

	if r := RecorderFrom(ctx); r != nil {
		r.Notify(ctx, notice)
	}
}
