package command

import (
	"time"

	"github.com/zeusync/gamecore/internal/core/models"
)

// DefaultAttackCooldown is the minimum time between two attacks of one entity.
const DefaultAttackCooldown = 500 * time.Millisecond

// Cooldowns tracks the last use of an ability per entity, so separate command
// instances for the same entity share one timer.
type Cooldowns struct {
	period time.Duration
	last   map[models.EntityID]time.Time
}

func NewCooldowns(period time.Duration) *Cooldowns {
	return &Cooldowns{period: period, last: make(map[models.EntityID]time.Time)}
}

func (c *Cooldowns) Period() time.Duration { return c.period }

// Remaining is the time left before id may act again.
func (c *Cooldowns) Remaining(id models.EntityID, now time.Time) time.Duration {
	last, ok := c.last[id]
	if !ok {
		return 0
	}
	return max(0, c.period-now.Sub(last))
}

func (c *Cooldowns) Ready(id models.EntityID, now time.Time) bool {
	return c.Remaining(id, now) == 0
}

func (c *Cooldowns) Mark(id models.EntityID, now time.Time) {
	c.last[id] = now
}

// Forget drops the timer of an evicted entity.
func (c *Cooldowns) Forget(id models.EntityID) {
	delete(c.last, id)
}

// Reset drops every timer.
func (c *Cooldowns) Reset() {
	clear(c.last)
}
