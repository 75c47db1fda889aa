package engine

import (
	"github.com/zeusync/gamecore/internal/core/command"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/observability/log"
)

// routeMenu applies a menu.request to the state stack. Stack changes are
// queued and commit on the next tick.
func (e *Engine) routeMenu(ev bus.Event) error {
	req, ok := ev.Data().(bus.MenuRequest)
	if !ok {
		return nil
	}
	top := ""
	if st, ok := e.stack.Current(); ok {
		top = st.ID()
	}

	switch command.MenuAction(req.Action) {
	case command.MenuOpen:
		if top == e.menuID {
			e.stack.Pop()
		} else {
			e.pushOverlay(e.menuID)
		}
	case command.MenuClose, command.MenuBack:
		if top == e.menuID {
			e.stack.Pop()
		}
	case command.MenuTogglePause:
		if top == e.pauseID {
			e.stack.Pop()
		} else {
			e.pushOverlay(e.pauseID)
		}
	default:
		e.logger.Debug("menu request ignored", log.String("action", req.Action), log.String("state", top))
	}
	return nil
}

// pushOverlay queues id on top of the stack and starts the fade.
func (e *Engine) pushOverlay(id string) {
	if err := e.stack.Push(id); err != nil {
		e.logger.Warn("menu state unavailable", log.String("state", id), log.Error(err))
		return
	}
	e.stack.Transition().StartFade(e.cfg.TransitionDuration.Seconds(), e.cfg.Fade())
}
