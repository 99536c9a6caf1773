package events

import (
	"testing"
	"time"

	"streaks/internal/storage"

	"github.com/google/uuid"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []storage.RecordChange
	bus.SubscribeRecordChange(func(ch storage.RecordChange) { first = append(first, ch) })
	bus.SubscribeRecordChange(func(ch storage.RecordChange) { second = append(second, ch) })

	ch := storage.RecordChange{TrackerID: uuid.New(), Date: "2025-12-15", Completed: true}
	bus.PublishRecordChange(ch)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("deliveries = %d/%d, want 1/1", len(first), len(second))
	}
	if first[0] != ch {
		t.Errorf("payload = %+v, want %+v", first[0], ch)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.SubscribeRecordChange(func(storage.RecordChange) { calls++ })

	bus.PublishRecordChange(storage.RecordChange{Date: "2025-12-15"})
	unsubscribe()
	bus.PublishRecordChange(storage.RecordChange{Date: "2025-12-16"})

	if calls != 1 {
		t.Errorf("calls = %d after unsubscribe, want 1", calls)
	}
}

func TestBusWireBroadcastsStorageToggles(t *testing.T) {
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}

	bus := NewBus()
	bus.Wire(store)

	var got []storage.RecordChange
	bus.SubscribeRecordChange(func(ch storage.RecordChange) { got = append(got, ch) })

	tracker, err := store.AddTracker(storage.Tracker{
		Name:     "Run",
		Color:    "#10B981",
		Emoji:    "🏃",
		Schedule: []storage.Weekday{storage.Monday},
	})
	if err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}

	date := time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC)
	store.AddRecord(tracker.ID, date)
	store.RemoveRecord(tracker.ID, date)

	if len(got) != 2 {
		t.Fatalf("broadcasts = %d, want 2", len(got))
	}
	if !got[0].Completed || got[1].Completed {
		t.Errorf("broadcast order = %+v, want completed then uncompleted", got)
	}
}
