package bot

import (
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bundle-bot/internal/catalog"
	"bundle-bot/internal/metrics"
	"bundle-bot/internal/order"
)

const (
	testWorkerChatID = int64(100)
	testOwnerChatID  = int64(200)
	testMomoNumber   = "0543226313"
)

var errSendFailed = errors.New("telegram: bad gateway")

// MockBotApi records everything sent and can fail sends to chosen chats.
type MockBotApi struct {
	mu        sync.Mutex
	Sent      []tgbotapi.Chattable
	Requests  []tgbotapi.Chattable
	FailChats map[int64]bool
	FailEdits bool
}

func (m *MockBotApi) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg := c.(type) {
	case tgbotapi.MessageConfig:
		if m.FailChats[msg.ChatID] {
			return tgbotapi.Message{}, errSendFailed
		}
	case tgbotapi.EditMessageTextConfig:
		if m.FailEdits {
			return tgbotapi.Message{}, errSendFailed
		}
	}

	m.Sent = append(m.Sent, c)
	return tgbotapi.Message{MessageID: len(m.Sent)}, nil
}

func (m *MockBotApi) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// MessagesTo returns the plain messages delivered to chatID, in order.
func (m *MockBotApi) MessagesTo(chatID int64) []tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range m.Sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

func (m *MockBotApi) Edits() []tgbotapi.EditMessageTextConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []tgbotapi.EditMessageTextConfig
	for _, c := range m.Sent {
		if edit, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, edit)
		}
	}
	return out
}

func (m *MockBotApi) Callbacks() []tgbotapi.CallbackConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []tgbotapi.CallbackConfig
	for _, c := range m.Requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

type testEnv struct {
	api        *MockBotApi
	store      *order.MemoryStore
	catalog    *catalog.Catalog
	metrics    *metrics.Metrics
	controller *Controller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	env := &testEnv{
		api:     &MockBotApi{FailChats: map[int64]bool{}},
		store:   order.NewMemoryStore(),
		catalog: cat,
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	env.controller = NewController(env.api, env.store, cat, Recipients{
		WorkerChatID: testWorkerChatID,
		OwnerChatID:  testOwnerChatID,
		MomoNumber:   testMomoNumber,
	}, env.metrics, zaptest.NewLogger(t))

	return env
}
