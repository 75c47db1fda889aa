package components

import (
	"bytes"
	"fmt"
	"math"

	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/pkg/encoding"
)

// Facing directions recorded by Movement.
const (
	DirectionUp    = "up"
	DirectionDown  = "down"
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// RunMultiplier scales MaxSpeed while the entity's Controller is running.
const RunMultiplier = 1.5

// Movement integrates velocity into the owner's Transform every update.
// A MaxSpeed of zero or less means unlimited.
type Movement struct {
	models.Attachment
	VX, VY    float64
	MaxSpeed  float64
	Friction  float64
	CanMove   bool
	Direction string
}

func NewMovement(maxSpeed float64) *Movement {
	return &Movement{MaxSpeed: maxSpeed, CanMove: true, Direction: DirectionDown}
}

func (m *Movement) ComponentID() models.ComponentID { return MovementID }

func (m *Movement) Speed() float64 { return math.Hypot(m.VX, m.VY) }

func (m *Movement) SetVelocity(vx, vy float64) {
	m.VX, m.VY = vx, vy
	m.limit()
}

// Face updates Direction from a movement vector. A zero vector keeps the
// current facing.
func (m *Movement) Face(dx, dy float64) {
	switch {
	case dx > 0:
		m.Direction = DirectionRight
	case dx < 0:
		m.Direction = DirectionLeft
	case dy > 0:
		m.Direction = DirectionDown
	case dy < 0:
		m.Direction = DirectionUp
	}
}

func (m *Movement) limit() {
	if m.MaxSpeed <= 0 {
		return
	}
	if s := m.Speed(); s > m.MaxSpeed {
		ratio := m.MaxSpeed / s
		m.VX *= ratio
		m.VY *= ratio
	}
}

func (m *Movement) Update(dt float64) error {
	if !m.CanMove {
		return nil
	}
	if owner := m.Owner(); owner != nil {
		if t, ok := models.Get[*Transform](owner, TransformID); ok {
			t.X += m.VX * dt
			t.Y += m.VY * dt
		}
	}
	if m.Friction > 0 {
		f := m.Friction * dt
		m.VX = towardZero(m.VX, f)
		m.VY = towardZero(m.VY, f)
	}
	return nil
}

func towardZero(v, by float64) float64 {
	if v > 0 {
		return math.Max(0, v-by)
	}
	return math.Min(0, v+by)
}

func (m *Movement) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	w := encoding.NewWriter(&buf)
	w.Float64(m.VX)
	w.Float64(m.VY)
	w.Float64(m.MaxSpeed)
	w.Float64(m.Friction)
	w.Bool(m.CanMove)
	w.Text(m.Direction)
	return buf.Bytes(), nil
}

func (m *Movement) Unmarshal(data []byte) error {
	r := encoding.NewReader(data)
	v := Movement{
		VX:       r.Float64(),
		VY:       r.Float64(),
		MaxSpeed: r.Float64(),
		Friction: r.Float64(),
		CanMove:  r.Bool(),
	}
	v.Direction = r.Text()
	if err := r.Done(); err != nil {
		return fmt.Errorf("movement: %w", err)
	}
	m.VX, m.VY, m.MaxSpeed, m.Friction = v.VX, v.VY, v.MaxSpeed, v.Friction
	m.CanMove, m.Direction = v.CanMove, v.Direction
	return nil
}
