package event

import "testing"

func TestDispatchOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string

	d.Subscribe(EnemyDied, ListenerFunc(func(e Event) { got = append(got, "typed") }))
	d.SubscribeAll(ListenerFunc(func(e Event) { got = append(got, "all:"+string(e.Type)) }))

	d.Dispatch(Event{Type: EnemyDied})
	d.Dispatch(Event{Type: WaveStarted})

	want := []string{"typed", "all:EnemyDied", "all:WaveStarted"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecorderDrain(t *testing.T) {
	d := NewDispatcher()
	rec := &Recorder{}
	d.SubscribeAll(rec)

	d.Dispatch(Event{Type: ShotFired})
	d.Dispatch(Event{Type: HitLanded, Amount: 50})

	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rec.Len())
	}
	events := rec.Drain()
	if events[1].Amount != 50 {
		t.Errorf("events[1] = %+v", events[1])
	}
	if rec.Len() != 0 {
		t.Error("Drain should empty the buffer")
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	rec := &Recorder{}
	d.Subscribe(GameOver, rec)
	d.Unsubscribe(GameOver, rec)
	d.Dispatch(Event{Type: GameOver})
	if rec.Len() != 0 {
		t.Error("unsubscribed listener received an event")
	}
}
