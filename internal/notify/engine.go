package notify

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/duetick/duetick/internal/model"
)

type queueItem struct {
	handle string
	req    model.Request
	at     time.Time
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].at.Before(pq[j].at)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is an in-process reminder scheduler backed by a min-heap on the
// trigger time and a single timer goroutine. Daily and weekly reminders
// re-arm themselves at the same clock time after firing; monthly reminders
// fall back to one-shot and rely on the rollover pass to cover the next
// occurrence. Cancelled handles stay in the heap and are skipped lazily
// when they surface.
type Engine struct {
	mu        sync.Mutex
	queue     priorityQueue
	cancelled map[string]bool
	out       chan Event
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
	now       func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(priorityQueue, 0),
		cancelled: make(map[string]bool),
		out:       make(chan Event, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// C is the stream of fired reminders.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule enqueues a reminder. A target time at or before now yields an
// empty handle and no error.
func (e *Engine) Schedule(req model.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if !req.TargetTime.After(e.now()) {
		return "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return "", nil
	}

	handle := uuid.NewString()
	heap.Push(&e.queue, queueItem{handle: handle, req: req, at: req.TargetTime})
	e.signalWakeup()
	return handle, nil
}

// Cancel marks a handle dead. Unknown handles are ignored.
func (e *Engine) Cancel(handle string) {
	if handle == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelled[handle] = true
	e.signalWakeup()
}

// Pending reports the number of live queued reminders.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, item := range e.queue {
		if !e.cancelled[item.handle] {
			n++
		}
	}
	return n
}

// Dropped reports events lost to a slow consumer.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(e.now())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.cancelled[head.handle] {
			heap.Pop(&e.queue)
			delete(e.cancelled, head.handle)
			continue
		}
		return head.at, true
	}
	return time.Time{}, false
}

// popDue drains everything due at now, re-arming repeating entries under
// the same handle so a later Cancel still covers them.
func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if e.cancelled[item.handle] {
			delete(e.cancelled, item.handle)
			continue
		}
		out = append(out, Event{
			Handle:  item.handle,
			TaskID:  item.req.TaskID,
			Title:   item.req.Title,
			Message: item.req.Message,
			Kind:    item.req.Kind,
			FiredAt: now,
		})
		if next, ok := nextTrigger(item.at, item.req.Repeat); ok {
			item.at = next
			heap.Push(&e.queue, item)
		}
	}
	return out
}

// nextTrigger computes the re-arm time for a repeating reminder. One-shot
// and monthly reminders do not re-arm here.
func nextTrigger(fired time.Time, repeat model.Repeat) (time.Time, bool) {
	switch repeat {
	case model.RepeatDaily:
		return fired.AddDate(0, 0, 1), true
	case model.RepeatWeekly:
		return fired.AddDate(0, 0, 7), true
	default:
		return time.Time{}, false
	}
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
