package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"formulastats/pkg/model"
	"formulastats/pkg/pubsub"
	"formulastats/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	fail bool
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return tgbotapi.Message{}, errors.New("bot blocked")
	}
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (r *recordingSender) messages() []tgbotapi.MessageConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), r.sent...)
}

type staticLister []settings.TelegramUser

func (l staticLister) ListUsersForRosterUpdates() ([]settings.TelegramUser, error) {
	return l, nil
}

var refreshed = model.RosterRefreshed{Category: "f1", Drivers: 3, At: time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)}

func TestManagerNotifiesSubscribers(t *testing.T) {
	sender := &recordingSender{}
	users := staticLister{{ID: "1", ChatID: "100"}, {ID: "2", ChatID: "not-a-chat"}, {ID: "3", ChatID: "300"}}
	m := NewManager(sender, users, nil)

	ps := pubsub.NewPubSub[model.RosterRefreshed](1, nil)
	ch := ps.Subscribe(pubsub.TopicRosterRefreshed)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Start(ctx, ch)
		close(done)
	}()

	ps.Publish(pubsub.TopicRosterRefreshed, refreshed)
	require.Eventually(t, func() bool { return len(sender.messages()) == 2 }, time.Second, 10*time.Millisecond)

	msgs := sender.messages()
	assert.Equal(t, int64(100), msgs[0].ChatID)
	assert.Equal(t, int64(300), msgs[1].ChatID)
	assert.Equal(t, "Driver roster updated:\nF1 driver roster refreshed: 3 drivers (01-06-2024)", msgs[0].Text)

	ps.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop after the subscription closed")
	}
}

func TestSendWithoutUsers(t *testing.T) {
	sender := &recordingSender{}
	m := NewManager(sender, staticLister{}, nil)
	require.NoError(t, m.sendNotification(context.Background(), nil, refreshed))
	assert.Empty(t, sender.messages())
}

func TestTelegramSendError(t *testing.T) {
	tg := NewTelegram(&recordingSender{fail: true})
	tg.AddReceivers(5)
	err := tg.Send(context.Background(), "subject", "body")
	assert.ErrorContains(t, err, "send to chat 5")
}
