package state

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/gamecore/internal/core/observability/log"
)

// Snapshot is the persisted form of a stack: registered state ids, bottom first.
type Snapshot struct {
	States []string `yaml:"states"`
}

func (s Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Snapshot) Unmarshal(data []byte) error {
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("state: decode snapshot: %w", err)
	}
	return nil
}

// Save returns the active state ids, bottom first.
func (s *Stack) Save() Snapshot {
	ids := make([]string, len(s.states))
	for i, st := range s.states {
		ids[i] = st.ID()
	}
	return Snapshot{States: ids}
}

// Restore clears the stack and pushes the registered states named in snap,
// committing each push immediately. Unknown ids are skipped and reported.
func (s *Stack) Restore(snap Snapshot) error {
	s.Clear()
	var errs []error
	for _, id := range snap.States {
		st, ok := s.registered[id]
		if !ok {
			s.logger.Warn("restore skipped unregistered state", log.String("state", id))
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownState, id))
			continue
		}
		s.pushNow(st)
	}
	return errors.Join(errs...)
}
