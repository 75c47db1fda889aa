package command

import (
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/models"
)

type MenuAction string

const (
	MenuOpen          MenuAction = "open_main_menu"
	MenuClose         MenuAction = "close_menu"
	MenuTogglePause   MenuAction = "toggle_pause"
	MenuNavigateUp    MenuAction = "navigate_up"
	MenuNavigateDown  MenuAction = "navigate_down"
	MenuNavigateLeft  MenuAction = "navigate_left"
	MenuNavigateRight MenuAction = "navigate_right"
	MenuSelect        MenuAction = "select"
	MenuBack          MenuAction = "back"
)

// PressOnly reports whether the action ignores held keys.
func (a MenuAction) PressOnly() bool {
	switch a {
	case MenuOpen, MenuClose, MenuTogglePause, MenuSelect, MenuBack:
		return true
	}
	return false
}

// Menu publishes a menu.request event. The engine decides what the request
// does to the state stack.
type Menu struct {
	Base
	Action MenuAction
	bus    bus.EventBus
	done   bool
}

func NewMenu(e *models.Entity, action MenuAction, b bus.EventBus) *Menu {
	return &Menu{Base: Base{Entity: e}, Action: action, bus: b}
}

func (m *Menu) Kind() Kind { return KindMenu }

func (m *Menu) ShouldExecute(time.Time) bool {
	if m.Action.PressOnly() && !m.JustPressed {
		return false
	}
	return m.ready()
}

func (m *Menu) Execute(now time.Time) error {
	if !m.ShouldExecute(now) {
		return ErrRejected
	}
	if err := m.request(m.Action); err != nil {
		return err
	}
	m.done = true
	return nil
}

// CanUndo holds for opening the menu and toggling pause once executed.
func (m *Menu) CanUndo() bool {
	return m.done && (m.Action == MenuOpen || m.Action == MenuTogglePause)
}

// Undo requests the inverse action.
func (m *Menu) Undo() error {
	if !m.CanUndo() {
		return ErrNotUndoable
	}
	inverse := MenuTogglePause
	if m.Action == MenuOpen {
		inverse = MenuClose
	}
	m.done = false
	return m.request(inverse)
}

func (m *Menu) request(action MenuAction) error {
	if m.bus == nil {
		return nil
	}
	payload := bus.MenuRequest{EntityID: uint32(m.Entity.ID()), Action: string(action)}
	return m.bus.Publish(bus.NewEvent(bus.TypeMenuRequest, "command", payload, 0, nil))
}

func (m *Menu) Describe() string {
	return fmt.Sprintf("menu(entity=%d, action=%s, pressed=%t)", m.entityID(), m.Action, m.JustPressed)
}
