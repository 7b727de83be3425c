package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishFansOut(t *testing.T) {
	req := require.New(t)
	bus := New()

	a, unsubA := bus.Subscribe(1)
	defer unsubA()
	b, unsubB := bus.Subscribe(1)
	defer unsubB()

	bus.Publish(Event{Type: UserBlacklisted, Data: Action{ActorID: 1, TargetID: 2}})

	ea := <-a
	eb := <-b
	req.Equal(UserBlacklisted, ea.Type)
	req.Equal(ea.Type, eb.Type)
	req.False(ea.Time.IsZero())
	req.Equal(int64(2), ea.Data.(Action).TargetID)
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := New()
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Publish(Event{Type: UserKicked})
	bus.Publish(Event{Type: UserMuted}) // dropped, buffer is full

	require.Equal(t, UserKicked, (<-ch).Type)
	require.Len(t, ch, 0)
}

func TestPublishAfterUnsubscribe(t *testing.T) {
	bus := New()
	ch, unsub := bus.Subscribe(1)
	unsub()
	unsub()

	bus.Publish(Event{Type: AdminAdded})
	_, ok := <-ch
	require.False(t, ok)
}
