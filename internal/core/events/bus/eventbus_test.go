package bus

import (
	"errors"
	"testing"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got StateTransition
	_, err := b.Subscribe(TypeStateTransition, func(e Event) error {
		got = e.Data().(StateTransition)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent(TypeStateTransition, "tester", StateTransition{Previous: "playing", Next: "paused"}, 0, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.Previous != "playing" || got.Next != "paused" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDeliveryFollowsSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, _ = b.Subscribe("ev", func(Event) error { order = append(order, i); return nil })
	}
	_ = b.Publish(NewEvent("ev", "src", nil, 0, nil))
	for i, v := range order {
		if v != i {
			t.Fatalf("out of order delivery: %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("first")
	e2 := errors.New("second")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })
	err := b.Publish(NewEvent("x", "src", nil, 0, nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected joined error, got %v", err)
	}

	err = b.PublishBatch(NewEvent("x", "src", nil, 0, nil), NewEvent("y", "src", nil, 0, nil))
	if !errors.Is(err, e1) {
		t.Fatalf("batch should aggregate: %v", err)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, _ := b.Subscribe("ev", func(Event) error { count++; return nil })
	_ = b.Publish(NewEvent("ev", "src", nil, 0, nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if sub.IsActive() {
		t.Fatal("subscription should be inactive")
	}
	_ = sub.Cancel()
	_ = b.Publish(NewEvent("ev", "src", nil, 0, nil))
	if count != 1 {
		t.Fatalf("expected one delivery, got %d", count)
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestCancelFromInsideHandler(t *testing.T) {
	b := New()
	count := 0
	var sub Subscription
	sub, _ = b.Subscribe("ev", func(Event) error {
		count++
		return sub.Cancel()
	})
	_ = b.Publish(NewEvent("ev", "src", nil, 0, nil))
	_ = b.Publish(NewEvent("ev", "src", nil, 0, nil))
	if count != 1 {
		t.Fatalf("expected one delivery, got %d", count)
	}
}

func TestFiltersDropEvents(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	count := 0
	_, _ = b.Subscribe("ev", func(Event) error { count++; return nil })
	_ = b.PublishWithFilters(NewEvent("ev", "src", nil, 0, nil), func(Event) bool { return false })
	if count != 0 {
		t.Fatal("filtered event delivered")
	}
	if b.GetMetrics().DroppedByFilters != 1 {
		t.Fatalf("drop not counted: %+v", b.GetMetrics())
	}
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(e Event) error { return nil })
	_ = b.Publish(NewEvent("e", "s", nil, 0, nil))
	m := b.GetMetrics()
	if m.Published != 0 || m.DeliveredHandlers != 0 {
		t.Fatalf("metrics should be zero without observers: %+v", m)
	}
	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil, 0, nil))
	m2 := b.GetMetrics()
	if m2.Published != 1 || m2.DeliveredHandlers != 1 || m2.SubscribersActive != 1 {
		t.Fatalf("metrics should update with observer: %+v", m2)
	}
	if obs.publishCount != 1 || obs.deliveredCount != 1 {
		t.Fatalf("observer not called: %+v", obs)
	}
	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil, 0, nil))
	if obs.publishCount != 1 {
		t.Fatal("removed observer still notified")
	}
}

func TestRejectsNil(t *testing.T) {
	b := New()
	if _, err := b.Subscribe("e", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if err := b.Publish(nil); !errors.Is(err, ErrNilEvent) {
		t.Fatalf("expected ErrNilEvent, got %v", err)
	}
}
