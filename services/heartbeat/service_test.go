package heartbeat

import (
	"context"
	"testing"
	"time"

	"plantmon-go/bus"
)

func TestBeatsPublished(t *testing.T) {
	b := bus.New(4)
	sub := b.NewConnection("tap").Subscribe(TopicBeat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(nil).Start(ctx, b.NewConnection("hb"))

	select {
	case msg := <-sub.Channel():
		beat, ok := msg.Payload.(Beat)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Payload)
		}
		if beat.Seq == 0 || beat.TsMs == 0 {
			t.Errorf("incomplete beat: %+v", beat)
		}
		if !msg.Retained {
			t.Error("beat must be retained for late subscribers")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no heartbeat within 3s")
	}
}

func TestIntervalReconfiguration(t *testing.T) {
	b := bus.New(8)
	sub := b.NewConnection("tap").Subscribe(TopicBeat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(nil).Start(ctx, b.NewConnection("hb"))

	// Retained so it reaches the loop even if it has not subscribed yet.
	ctl := b.NewConnection("ctl")
	ctl.Publish(ctl.NewMessage(TopicInterval, 0.05, true))

	// At 50ms cadence several beats land well inside a second.
	beats := 0
	deadline := time.After(2 * time.Second)
	for beats < 3 {
		select {
		case <-sub.Channel():
			beats++
		case <-deadline:
			t.Fatalf("only %d beats after reconfiguration", beats)
		}
	}
}
