package watch

import (
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/lsdir"
)

const pollInterval = 500 * time.Millisecond

// info tracks one watched directory: its last-known listing, its
// subscribers, and the poller goroutine that keeps it fresh.
type info struct {
	path      string
	timeStyle string
	started   time.Time

	mu          sync.Mutex
	entries     []lsdir.Entry
	signature   string
	subscribers map[string]connarg.Sender

	stop     chan struct{}
	stopOnce sync.Once

	onEmpty func(path string) // called when the last subscriber leaves
}

// newInfo performs the initial listing (which can fail) and, on success,
// starts the 500ms poll loop.
func newInfo(path, timeStyle string, onEmpty func(string)) (*info, error) {
	entries, err := lsdir.Entries(path, timeStyle)
	if err != nil {
		return nil, &ferrors.WatchError{Kind: ferrors.WatchStart, Msg: err.Error(), Path: path}
	}
	sig, err := lsdir.Signature(path)
	if err != nil {
		return nil, &ferrors.WatchError{Kind: ferrors.WatchStart, Msg: err.Error(), Path: path}
	}
	wi := &info{
		path:        path,
		timeStyle:   timeStyle,
		started:     time.Now(),
		entries:     entries,
		signature:   sig,
		subscribers: make(map[string]connarg.Sender),
		stop:        make(chan struct{}),
		onEmpty:     onEmpty,
	}
	go wi.poll()
	return wi, nil
}

func (wi *info) poll() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-wi.stop:
			return
		case <-ticker.C:
			wi.checkUpdates()
		}
	}
}

// checkUpdates recomputes the directory's fingerprint; on a mismatch it
// refreshes the listing and fans out dir_update to every subscriber. A
// listing error destroys this watch — it aborts its poller, fans out
// watch_error, and removes itself from the manager's registry, so a later
// cd to the same path starts a fresh watch rather than finding a dead one.
func (wi *info) checkUpdates() {
	sig, err := lsdir.Signature(wi.path)
	if err != nil {
		wi.fail(&ferrors.WatchError{Kind: ferrors.WatchDir, Msg: err.Error(), Path: wi.path})
		return
	}

	wi.mu.Lock()
	changed := sig != wi.signature
	wi.mu.Unlock()
	if !changed {
		return
	}

	entries, err := lsdir.Entries(wi.path, wi.timeStyle)
	if err != nil {
		wi.fail(&ferrors.WatchError{Kind: ferrors.WatchDir, Msg: err.Error(), Path: wi.path})
		return
	}

	wi.mu.Lock()
	wi.signature = sig
	wi.entries = entries
	subs := wi.subscriberList()
	wi.mu.Unlock()

	for _, s := range subs {
		if err := s.DirUpdate(wi.path, entries); err != nil {
			log.Printf("watch: send dir_update for %s: %v", wi.path, err)
		}
	}
}

// fail stops the poller, notifies every subscriber, and deletes this watch
// from the manager's registry — the same destruction the last-subscriber-
// left path performs, triggered here by an I/O error instead.
func (wi *info) fail(err error) {
	wi.abort()
	wi.broadcastError(err)
	if wi.onEmpty != nil {
		wi.onEmpty(wi.path)
	}
}

func (wi *info) broadcastError(err error) {
	wi.mu.Lock()
	subs := wi.subscriberList()
	wi.mu.Unlock()
	for _, s := range subs {
		if sendErr := s.WatchErrorDir(err, wi.path); sendErr != nil {
			log.Printf("watch: send watch_error for %s: %v", wi.path, sendErr)
		}
	}
}

func (wi *info) subscriberList() []connarg.Sender {
	out := make([]connarg.Sender, 0, len(wi.subscribers))
	for _, s := range wi.subscribers {
		out = append(out, s)
	}
	return out
}

func (wi *info) snapshot() []lsdir.Entry {
	wi.mu.Lock()
	defer wi.mu.Unlock()
	return wi.entries
}

// addSubscriber is idempotent.
func (wi *info) addSubscriber(uid string, s connarg.Sender) {
	wi.mu.Lock()
	defer wi.mu.Unlock()
	wi.subscribers[uid] = s
}

// removeSubscriber stops the poller once the last subscriber leaves.
func (wi *info) removeSubscriber(uid string) {
	wi.mu.Lock()
	delete(wi.subscribers, uid)
	empty := len(wi.subscribers) == 0
	wi.mu.Unlock()
	if empty {
		wi.abort()
		log.Printf("watch: stopped watching %s, last subscriber left (watching since %s)", wi.path, humanize.Time(wi.started))
		if wi.onEmpty != nil {
			wi.onEmpty(wi.path)
		}
	}
}

// abort stops the poll goroutine. Safe to call more than once.
func (wi *info) abort() {
	wi.stopOnce.Do(func() {
		close(wi.stop)
	})
}
