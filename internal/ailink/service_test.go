package ailink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/ailink/driver"
	"github.com/mealdesk/mealdesk/internal/ailink/prompt"
	"github.com/mealdesk/mealdesk/internal/config"
)

type fakeDriver struct {
	text     string
	delay    time.Duration
	err      error
	lastReq  *driver.Request
	jsonMode bool
}

func (f *fakeDriver) Name() string { return "fake" }

func (f *fakeDriver) Capabilities() driver.Capabilities {
	return driver.Capabilities{SupportsJSONMode: f.jsonMode}
}

func (f *fakeDriver) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	f.lastReq = req
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &driver.Response{Text: f.text, FinishReason: "stop"}, nil
}

func testRegistry(t *testing.T) prompt.Registry {
	t.Helper()
	reg, err := prompt.DefaultRegistry()
	require.NoError(t, err)
	return reg
}

func TestServiceChat(t *testing.T) {
	drv := &fakeDriver{text: `{"reply":"done"}`, jsonMode: true}
	svc := &Service{
		Driver:      drv,
		Prompts:     testRegistry(t),
		Model:       "test-model",
		MaxTokens:   512,
		CallTimeout: time.Second,
	}

	text, err := svc.Chat(context.Background(), "recipe-chat", "how do I roast garlic", nil)
	require.NoError(t, err)
	require.Equal(t, `{"reply":"done"}`, text)

	require.Equal(t, "test-model", drv.lastReq.Model)
	require.NotEmpty(t, drv.lastReq.System)
	require.Len(t, drv.lastReq.Messages, 1)
	require.Equal(t, "user", drv.lastReq.Messages[0].Role)
	require.NotNil(t, drv.lastReq.ResponseFormat)
	require.NotNil(t, drv.lastReq.MaxTokens)
	require.Equal(t, 512, *drv.lastReq.MaxTokens)
}

func TestServiceChatAppendsContext(t *testing.T) {
	drv := &fakeDriver{text: "ok"}
	svc := &Service{Driver: drv, Prompts: testRegistry(t), Model: "m", CallTimeout: time.Second}

	_, err := svc.Chat(context.Background(), "shopping-chat", "add milk", []byte(`{"lists":[]}`))
	require.NoError(t, err)
	require.Contains(t, drv.lastReq.Messages[0].Content, "add milk")
	require.Contains(t, drv.lastReq.Messages[0].Content, `{"lists":[]}`)
}

func TestServiceChatEnforcesDeadline(t *testing.T) {
	drv := &fakeDriver{text: "too late", delay: 5 * time.Second}
	svc := &Service{Driver: drv, Prompts: testRegistry(t), Model: "m", CallTimeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := svc.Chat(context.Background(), "recipe-chat", "slow question", nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, elapsed, time.Second, "call must return near the deadline, not after the upstream finishes")
}

func TestServiceChatUnknownPrompt(t *testing.T) {
	svc := &Service{Driver: &fakeDriver{}, Prompts: testRegistry(t), Model: "m"}

	_, err := svc.Chat(context.Background(), "sommelier-chat", "wine pairing", nil)
	require.Error(t, err)
}

func TestServiceChatEmptyCompletion(t *testing.T) {
	drv := &fakeDriver{text: "   "}
	svc := &Service{Driver: drv, Prompts: testRegistry(t), Model: "m", CallTimeout: time.Second}

	_, err := svc.Chat(context.Background(), "recipe-chat", "hi", nil)
	require.Error(t, err)

	var provErr *driver.ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestNewDriver(t *testing.T) {
	drv, err := NewDriver(config.AILinkConfig{Provider: "openai"})
	require.NoError(t, err)
	require.Equal(t, "openai", drv.Name())

	drv, err = NewDriver(config.AILinkConfig{Provider: "anthropic"})
	require.NoError(t, err)
	require.Equal(t, "anthropic", drv.Name())

	_, err = NewDriver(config.AILinkConfig{Provider: "palmtree"})
	require.Error(t, err)
}
