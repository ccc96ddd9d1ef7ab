package value

import (
	"net/http"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/sourcegraph/conc/pool"
)

// FutureHandle and TaskHandle back the Future and TaskHandle variants.
// The core treats both as opaque identity handles (§9.1 "Async handles
// are opaque") — all it ever does with them is pass them to stdlib and
// compare them by identity. The actual scheduling is delegated to
// github.com/sourcegraph/conc's structured-concurrency pool, the same
// dependency the teacher pack already carries transitively; wiring it
// here gives these variants a real implementation instead of a bare
// placeholder struct.
type FutureHandle struct {
	once   sync.Once
	result Value
	err    error
	done   chan struct{}
}

// NewFuture submits work to the given pool and returns a Future handle
// that resolves once work completes.
func NewFuture(p *pool.Pool, work func() (Value, error)) Value {
	f := &FutureHandle{done: make(chan struct{})}
	p.Go(func() {
		res, err := work()
		f.once.Do(func() {
			f.result, f.err = res, err
			close(f.done)
		})
	})
	return Value{kind: KindFuture, fut: f}
}

// Await blocks until the future resolves and returns its outcome.
func (v Value) Await() (Value, error) {
	<-v.fut.done
	return v.fut.result, v.fut.err
}

// TaskHandle identifies a spawned background task by pointer.
type TaskHandle struct {
	Pool *pool.Pool
}

func NewTaskHandle(p *pool.Pool) Value {
	return Value{kind: KindTaskHandle, th: &TaskHandle{Pool: p}}
}

// ChannelSender and ChannelReceiver back the two channel-endpoint
// variants. Both wrap a single shared Go channel of Value.
type ChannelSender struct{ ch chan Value }
type ChannelReceiver struct{ ch chan Value }

// NewChannel constructs a buffered channel of the given capacity and
// returns its sender and receiver endpoints as a pair of Values.
func NewChannel(capacity int) (Value, Value) {
	ch := make(chan Value, capacity)
	return Value{kind: KindChannelSender, cs: &ChannelSender{ch: ch}},
		Value{kind: KindChannelReceiver, cr: &ChannelReceiver{ch: ch}}
}

func (v Value) ChannelSend(x Value)          { v.cs.ch <- x }
func (v Value) ChannelReceive() (Value, bool) { x, ok := <-v.cr.ch; return x, ok }
func (v Value) ChannelClose()                { close(v.cs.ch) }

// AsyncMutex backs the AsyncMutex variant: a lock held across suspension
// points in stdlib async functions. The core never inspects its state,
// only passes it along by identity.
type AsyncMutex struct {
	mu sync.Mutex
}

func NewAsyncMutex() Value { return Value{kind: KindAsyncMutex, am: &AsyncMutex{}} }

func (v Value) AsyncMutexLock()   { v.am.mu.Lock() }
func (v Value) AsyncMutexUnlock() { v.am.mu.Unlock() }

// DateTime backs the DateTime variant. time.Time already has the value
// semantics and content-equality behavior §3.1 specifies, so it is used
// directly as the payload rather than reimplemented.
type DateTime struct {
	T time.Time
}

func DateTimeValue(t time.Time) Value { return Value{kind: KindDateTime, dt: &DateTime{T: t}} }

func (v Value) AsDateTime() time.Time { return v.dt.T }

// Regex backs the Regex variant, using github.com/dlclark/regexp2 rather
// than the standard library's regexp: Atlas patterns are user-facing
// (sourced from program text, not compiled Go code), and regexp2 supports
// the backreferences and lookaround a user-facing pattern type is
// expected to accept where RE2-derived regexp does not.
type Regex struct {
	Pattern string
	re      *regexp2.Regexp
}

func CompileRegex(pattern string) (Value, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindRegex, rx: &Regex{Pattern: pattern, re: re}}, nil
}

func (v Value) RegexMatch(s string) (bool, error) {
	return v.rx.re.MatchString(s)
}

// HttpRequest and HttpResponse back their respective variants, reusing
// net/http's request/response shapes rather than inventing a parallel
// struct — the stdlib HTTP client is the obvious body for these
// constructors once stdlib functions exist to produce them.
type HttpRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    string
}

func HttpRequestValue(r *HttpRequest) Value { return Value{kind: KindHttpRequest, hreq: r} }

type HttpResponse struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

func HttpResponseValue(r *HttpResponse) Value { return Value{kind: KindHttpResponse, hres: r} }
