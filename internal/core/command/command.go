// Package command turns logical input actions into one-shot mutations of an
// entity. Commands are queued by priority, executed once per tick and, when
// they support it, kept in a bounded history for undo.
package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/models"
)

var (
	// ErrRejected is returned by Execute when ShouldExecute is false.
	ErrRejected    = errors.New("command: rejected")
	ErrNotUndoable = errors.New("command: not undoable")
)

type Kind uint8

const (
	KindMove Kind = iota
	KindAttack
	KindInteract
	KindRun
	KindMenu
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindAttack:
		return "attack"
	case KindInteract:
		return "interact"
	case KindRun:
		return "run"
	case KindMenu:
		return "menu"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Command is a single intent aimed at one entity.
type Command interface {
	Kind() Kind
	// Meta exposes the shared fields.
	Meta() *Base
	Target() *models.Entity
	ShouldExecute(now time.Time) bool
	Execute(now time.Time) error
	// CanUndo is consulted after Execute; only then is it meaningful.
	CanUndo() bool
	Undo() error
	Describe() string
}

// Clock supplies the time commands are executed at.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Base carries the fields every command shares. Embed it.
type Base struct {
	Entity       *models.Entity
	JustPressed  bool
	JustReleased bool
	CreatedAt    time.Time
}

func (b *Base) Meta() *Base            { return b }
func (b *Base) Target() *models.Entity { return b.Entity }

// SetEdges records the key transition that produced the command.
func (b *Base) SetEdges(pressed, released bool) {
	b.JustPressed = pressed
	b.JustReleased = released
}

// ready is the precondition shared by all commands.
func (b *Base) ready() bool {
	return b.Entity != nil && b.Entity.Active()
}

func (b *Base) entityID() int64 {
	if b.Entity == nil {
		return -1
	}
	return int64(b.Entity.ID())
}
