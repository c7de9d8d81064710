package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/pagecrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages served by one Chrome
// process before it is replaced.
const DefaultMaxPages = 75

// session is one Chrome process and the number of leases still using it.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	leases   int
	retired  bool
}

func (s *session) close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// Lease is a claim on the current Chrome process for one navigation.
// The process is not shut down while a lease on it is held.
type Lease struct {
	Browser *rod.Browser

	bm   *BrowserManager
	s    *session
	once sync.Once
}

// Release returns the lease. It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() { l.bm.release(l.s) })
}

// BrowserManager owns the headless Chrome process and replaces it after a
// fixed number of pages, since Chrome's memory grows over a long crawl even
// when every tab is closed. A replaced process keeps serving the leases
// already handed out and is shut down when the last one is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *session
	served   int64
	maxPages int64
	recycled int
	closed   bool

	// recycling is set while a replacement process is starting.
	recycling bool

	noSandbox bool
	bin       string

	// start launches a Chrome process.
	start func() (*session, error)
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages one Chrome process serves.
// Values below one keep the default.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.maxPages = n
		}
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside containers.
func WithNoSandbox(noSandbox bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.noSandbox = noSandbox
	}
}

// WithBin sets the Chrome executable. By default the launcher looks up a
// local installation.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches a headless Chrome process.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	bm.start = bm.launch
	for _, opt := range opts {
		opt(bm)
	}
	if err := bm.init(); err != nil {
		return nil, err
	}
	return bm, nil
}

func (bm *BrowserManager) init() error {
	s, err := bm.start()
	if err != nil {
		return err
	}
	bm.current = s
	return nil
}

// Acquire leases the current Chrome process for one page. When the process
// has served its quota, the first caller to notice starts a replacement
// outside the lock while other callers keep using the old process. If the
// replacement fails to start, the old process keeps serving. Returns the
// context error if ctx ends while waiting for the replacement, and EINVALID
// after Close.
func (bm *BrowserManager) Acquire(ctx context.Context) (*Lease, error) {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "browser is closed")
	}

	if bm.served >= bm.maxPages && !bm.recycling {
		bm.recycling = true
		bm.mu.Unlock()

		done := make(chan struct{})
		go func() {
			defer close(done)
			bm.replace()
		}()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		bm.mu.Lock()
		if bm.closed {
			bm.mu.Unlock()
			return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "browser is closed")
		}
	}
	defer bm.mu.Unlock()

	s := bm.current
	s.leases++
	bm.served++
	return &Lease{Browser: s.browser, bm: bm, s: s}, nil
}

// replace starts a new Chrome process and retires the current one.
func (bm *BrowserManager) replace() {
	next, err := bm.start()

	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.recycling = false
	if err != nil {
		return
	}
	if bm.closed {
		_ = next.close()
		return
	}

	old := bm.current
	old.retired = true
	if old.leases == 0 {
		_ = old.close()
	}
	bm.current = next
	bm.served = 0
	bm.recycled++
}

func (bm *BrowserManager) release(s *session) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s.leases--
	if s.retired && s.leases == 0 {
		_ = s.close()
	}
}

// Recycled returns how many times the Chrome process has been replaced.
func (bm *BrowserManager) Recycled() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycled
}

// Close shuts the current Chrome process down. A process already replaced
// shuts down when its last lease is released. Close is safe to call
// multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	s := bm.current
	bm.current = nil
	if s == nil {
		return nil
	}
	s.retired = true
	return s.close()
}

// launch starts Chrome with flags that keep background tabs from being
// throttled.
func (bm *BrowserManager) launch() (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		NoSandbox(bm.noSandbox).
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &session{browser: b, launcher: l}, nil
}

// LauncherPID returns the process ID of the current Chrome launcher, or 0
// after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
