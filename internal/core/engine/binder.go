package engine

import (
	"github.com/zeusync/gamecore/internal/core/command"
	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
)

// bind turns this tick's key transitions into commands for every entity whose
// Controller accepts input. While the top state pauses the states beneath it,
// only menu-priority commands and key releases get through.
func (e *Engine) bind() {
	now := e.clock.Now()
	actions := e.bindings.Actions()
	blocked := e.gameplayBlocked()

	for _, ent := range e.registry.EntitiesWith(components.ControllerID) {
		ctl, ok := models.Get[*components.Controller](ent, components.ControllerID)
		if !ok || !ctl.Accepting {
			continue
		}
		for _, action := range actions {
			key, _ := e.bindings.Key(action)
			pressed, released, held := e.keys.Edge(key)
			if !pressed && !released && !held {
				continue
			}
			cmd, priority, ok := e.factories.Create(action, ent, pressed, released, now)
			if !ok {
				e.reportMissing(action)
				continue
			}
			if blocked && priority < command.PriorityMenu && !released {
				continue
			}
			e.queue.Enqueue(cmd, priority)
		}
	}
}

func (e *Engine) gameplayBlocked() bool {
	top, ok := e.stack.Current()
	return ok && top.PausesUnderlying()
}

// reportMissing logs an action without a factory once.
func (e *Engine) reportMissing(action string) {
	if _, seen := e.missing[action]; seen {
		return
	}
	e.missing[action] = struct{}{}
	e.logger.Warn("no command factory for action", log.String("action", action))
}
