package command

import (
	"errors"
	"fmt"

	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/pkg/sequence"
)

const (
	DefaultMaxQueue   = 100
	DefaultMaxHistory = 50
)

// Outcome of executing one command.
type Outcome uint8

const (
	Executed Outcome = iota
	Skipped
	Failed
)

// Result counts the outcomes of an ExecuteAll pass.
type Result struct {
	Executed int
	Skipped  int
	Failed   int
}

func (r *Result) add(o Outcome) {
	switch o {
	case Executed:
		r.Executed++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
	}
}

type QueueOption func(*Queue)

func WithClock(c Clock) QueueOption {
	return func(q *Queue) { q.clock = c }
}

func WithLogger(l log.Log) QueueOption {
	return func(q *Queue) { q.logger = l }
}

// Queue buffers commands by priority and keeps a bounded undo history.
// It is not safe for concurrent use.
type Queue struct {
	pending  *sequence.PriorityQueue[Command]
	history  *sequence.Bounded[Command]
	maxQueue int
	clock    Clock
	logger   log.Log
}

// NewQueue creates a queue. Non-positive sizes fall back to the defaults.
func NewQueue(maxQueue, maxHistory int, opts ...QueueOption) *Queue {
	if maxQueue <= 0 {
		maxQueue = DefaultMaxQueue
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	q := &Queue{
		pending:  sequence.NewPriorityQueue[Command](),
		history:  sequence.NewBounded[Command](maxHistory),
		maxQueue: maxQueue,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.clock == nil {
		q.clock = SystemClock{}
	}
	if q.logger == nil {
		q.logger = log.NewNop()
	}
	q.logger = q.logger.With(log.String("component", "command_queue"))
	return q
}

// Enqueue adds cmd. It returns false for nil commands and when the queue is
// full.
func (q *Queue) Enqueue(cmd Command, priority int) bool {
	if cmd == nil {
		q.logger.Warn("nil command dropped")
		return false
	}
	if q.pending.Len() >= q.maxQueue {
		q.logger.Warn("command queue full", log.String("command", cmd.Describe()), log.Int("capacity", q.maxQueue))
		return false
	}
	if meta := cmd.Meta(); meta.CreatedAt.IsZero() {
		meta.CreatedAt = q.clock.Now()
	}
	q.pending.Enqueue(cmd, priority)
	return true
}

// ExecuteAll runs the commands queued when it was called, highest priority
// first and in arrival order within a priority. Commands enqueued while it
// runs wait for the next call.
func (q *Queue) ExecuteAll() Result {
	batch := make([]Command, 0, q.pending.Len())
	for {
		cmd, ok := q.pending.Dequeue()
		if !ok {
			break
		}
		batch = append(batch, cmd)
	}
	var res Result
	for _, cmd := range batch {
		res.add(q.run(cmd))
	}
	return res
}

// ExecuteNext runs the highest priority command. ok is false when the queue
// is empty.
func (q *Queue) ExecuteNext() (outcome Outcome, ok bool) {
	cmd, ok := q.pending.Dequeue()
	if !ok {
		return Skipped, false
	}
	return q.run(cmd), true
}

func (q *Queue) run(cmd Command) (outcome Outcome) {
	defer func() {
		if p := recover(); p != nil {
			q.logger.Error("command panicked", log.String("command", cmd.Describe()), log.Any("panic", p))
			outcome = Failed
		}
	}()

	now := q.clock.Now()
	if !cmd.ShouldExecute(now) {
		return Skipped
	}
	err := cmd.Execute(now)
	switch {
	case errors.Is(err, ErrRejected):
		return Skipped
	case err != nil:
		q.logger.Error("command failed", log.String("command", cmd.Describe()), log.Error(err))
		return Failed
	}
	if cmd.CanUndo() {
		if evicted, dropped := q.history.PushBack(cmd); dropped {
			q.logger.Debug("undo history full, oldest dropped", log.String("command", evicted.Describe()))
		}
	}
	return Executed
}

// UndoLast undoes the most recent undoable command. It returns false when
// the history is empty or the undo fails.
func (q *Queue) UndoLast() bool {
	cmd, ok := q.history.PopBack()
	if !ok {
		return false
	}
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		return cmd.Undo()
	}()
	if err != nil {
		q.logger.Error("undo failed", log.String("command", cmd.Describe()), log.Error(err))
		return false
	}
	return true
}

// History returns the undoable commands, oldest first.
func (q *Queue) History() []Command { return q.history.Items() }

func (q *Queue) Len() int        { return q.pending.Len() }
func (q *Queue) HistoryLen() int { return q.history.Len() }
func (q *Queue) IsFull() bool    { return q.pending.Len() >= q.maxQueue }
func (q *Queue) IsEmpty() bool   { return q.pending.IsEmpty() }

func (q *Queue) ClearQueue()   { q.pending.Clear() }
func (q *Queue) ClearHistory() { q.history.Clear() }

// Clear drops both pending commands and history.
func (q *Queue) Clear() {
	q.ClearQueue()
	q.ClearHistory()
}
