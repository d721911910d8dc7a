// Package store owns the canonical in-memory task list and orchestrates
// every mutation: notification rescheduling first, then the in-memory
// swap, then a whole-list persist.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duetick/duetick/internal/logging"
	"github.com/duetick/duetick/internal/model"
	"github.com/duetick/duetick/internal/notify"
	"github.com/duetick/duetick/internal/recur"
	"github.com/duetick/duetick/internal/storage"
)

var ErrTaskNotFound = errors.New("store: task not found")

// defaultLeadTime is how far in the future a freshly created task is due.
const defaultLeadTime = 15 * time.Minute

// Store is the session's task list. All methods are safe for concurrent
// use; each mutating method ends by persisting the full list. Persistence
// failures are logged and otherwise swallowed so the in-memory state stays
// usable.
type Store struct {
	mu      sync.Mutex
	tasks   []model.Task
	adapter storage.Store
	sched   notify.Scheduler
	log     *logging.Logger

	now   func() time.Time
	newID func() string
}

func New(adapter storage.Store, sched notify.Scheduler, log *logging.Logger) *Store {
	return &Store{
		tasks:   []model.Task{},
		adapter: adapter,
		sched:   sched,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Now reports the store's current time. Tests swap the clock out.
func (s *Store) Now() time.Time {
	return s.now()
}

// Tasks returns a snapshot of the current list in display order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Load reads the persisted list, rolls overdue recurring tasks forward,
// re-schedules reminders for every open task, writes the resolved list
// back, and adopts it as the session state. Persisted handles identify
// entries in a previous process's scheduler, so they are dropped and
// every open task gets a fresh pair.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.adapter.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	for i := range loaded {
		loaded[i].WarnNotificationID = ""
		loaded[i].FinalNotificationID = ""
	}
	resolved := recur.Resolve(loaded, s.now())
	for i := range resolved {
		t := &resolved[i]
		if t.IsComplete {
			continue
		}
		if err := notify.Reschedule(s.sched, t); err != nil {
			s.log.Warn("store", fmt.Sprintf("schedule reminders for task %s: %v", t.ID, err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = resolved
	s.persistLocked(ctx)
	return nil
}

// AddOneOff creates a non-repeating task due 15 minutes from now and
// schedules its reminder pair.
func (s *Store) AddOneOff(ctx context.Context, title string) (model.Task, error) {
	return s.add(ctx, title, model.RepeatNone, false, s.now().Add(defaultLeadTime))
}

// AddRoutine creates a daily-repeating task due 15 minutes from now.
func (s *Store) AddRoutine(ctx context.Context, title string) (model.Task, error) {
	return s.add(ctx, title, model.RepeatDaily, false, s.now().Add(defaultLeadTime))
}

func (s *Store) add(ctx context.Context, title string, repeat model.Repeat, priority bool, due time.Time) (model.Task, error) {
	if title == "" {
		title = "Next Task"
	}
	task := model.Task{
		ID:         s.newID(),
		Title:      title,
		DueDate:    due,
		IsPriority: priority,
		Repeat:     repeat,
	}
	if err := notify.Reschedule(s.sched, &task); err != nil {
		return model.Task{}, fmt.Errorf("schedule reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return task, nil
}

// AddPrayerTasks bulk-creates the daily prayer tasks for a faith, anchored
// on today's date. Reminder pairs for the batch are scheduled concurrently
// and joined before the list is committed.
func (s *Store) AddPrayerTasks(ctx context.Context, faith model.Faith) ([]model.Task, error) {
	slots, err := model.PrayerSchedule(faith)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batch := make([]model.Task, len(slots))
	for i, slot := range slots {
		batch[i] = model.Task{
			ID:          s.newID(),
			Title:       slot.Title,
			Description: fmt.Sprintf("%s reminder", slot.Title),
			DueDate:     slot.At(now),
			IsPriority:  true,
			Repeat:      model.RepeatDaily,
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, len(batch))
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = notify.Reschedule(s.sched, &batch[i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("schedule prayer reminders: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, batch...)
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return batch, nil
}

// Duplicate clones a task under a fresh id with completion and reminder
// handles cleared. The copy carries no live notifications; the next
// reschedule or rollover pass will populate them.
func (s *Store) Duplicate(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	clone := s.tasks[idx]
	clone.ID = s.newID()
	clone.IsComplete = false
	clone.WarnNotificationID = ""
	clone.FinalNotificationID = ""

	s.tasks = append(s.tasks, clone)
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return clone, nil
}

// Apply performs one tagged update on the task. Title, due date, and repeat
// changes re-run the reschedule protocol before the list is committed.
func (s *Store) Apply(ctx context.Context, id string, u Update) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	task := s.tasks[idx]

	switch v := u.(type) {
	case RenameTitle:
		task.Title = v.Title
	case SetDescription:
		task.Description = v.Description
	case Reschedule:
		task.DueDate = v.DueDate
	case SetRepeat:
		if !v.Repeat.IsValid() {
			return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidRepeat, v.Repeat)
		}
		task.Repeat = v.Repeat
	case SetPriority:
		task.IsPriority = v.Priority
	default:
		return model.Task{}, fmt.Errorf("store: unknown update %T", u)
	}

	if affectsNotifications(u) {
		if err := notify.Reschedule(s.sched, &task); err != nil {
			return model.Task{}, fmt.Errorf("reschedule reminders: %w", err)
		}
	}

	s.tasks[idx] = task
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return task, nil
}

// ToggleComplete flips completion. Completing a task cancels and clears
// both reminder handles; un-completing schedules a fresh pair from the
// current due date.
func (s *Store) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	task := s.tasks[idx]
	task.IsComplete = !task.IsComplete

	if task.IsComplete {
		notify.CancelAll(s.sched, &task)
	} else {
		if err := notify.Reschedule(s.sched, &task); err != nil {
			return model.Task{}, fmt.Errorf("reschedule reminders: %w", err)
		}
	}

	s.tasks[idx] = task
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return task, nil
}

// TogglePriority flips the priority flag. Reminders are unaffected.
func (s *Store) TogglePriority(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	task := s.tasks[idx]
	task.IsPriority = !task.IsPriority
	s.tasks[idx] = task
	recur.Sort(s.tasks)
	s.persistLocked(ctx)
	return task, nil
}

// Delete cancels any live reminders and removes the task.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	notify.CancelAll(s.sched, &s.tasks[idx])
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked(ctx)
	return nil
}

// Share returns the formatted share text for a task.
func (s *Store) Share(id string) (string, error) {
	task, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return task.ShareText(), nil
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the current list. Failures are logged and dropped;
// the in-memory list is already the source of truth for the session.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.adapter.Save(ctx, s.tasks); err != nil {
		s.log.Error("store", fmt.Sprintf("persist tasks: %v", err))
	}
}
