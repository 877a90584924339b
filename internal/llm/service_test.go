package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	reply   string
	err     error
	lastReq *Request
	healthy bool
}

func (f *fakeDriver) Complete(ctx context.Context, req *Request) (*Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &Response{Content: f.reply, Model: req.Model}, nil
}

func (f *fakeDriver) CheckHealth(ctx context.Context) error {
	if f.healthy {
		return nil
	}
	return errors.New("down")
}

func (f *fakeDriver) Name() string { return "fake" }

func TestGenerateReplyBuildsConversation(t *testing.T) {
	driver := &fakeDriver{reply: `{"query_type": "cafe", "search_query": "coffee shop", "response_text": "On it."}`}
	svc := NewService(driver, "llama3.2")

	history := []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
		{Role: "assistant", Content: "four"},
		{Role: "user", Content: "five"},
	}

	reply, err := svc.GenerateReply(context.Background(), "coffee near me", history)
	require.NoError(t, err)
	require.Equal(t, "cafe", reply.Intent.QueryType)

	// system prompt + capped history (5) + current message
	require.Len(t, driver.lastReq.Messages, 7)
	require.Equal(t, "system", driver.lastReq.Messages[0].Role)
	require.Equal(t, "coffee near me", driver.lastReq.Messages[6].Content)
	// The oldest turns were trimmed.
	require.Equal(t, "one", driver.lastReq.Messages[1].Content)
	require.Equal(t, "llama3.2", driver.lastReq.Model)
}

func TestGenerateReplyPropagatesDriverError(t *testing.T) {
	driver := &fakeDriver{err: errors.New("connection refused")}
	svc := NewService(driver, "llama3.2")

	_, err := svc.GenerateReply(context.Background(), "hi", nil)
	require.Error(t, err)
}

func TestCheckHealth(t *testing.T) {
	svc := NewService(&fakeDriver{healthy: true}, "llama3.2")
	require.NoError(t, svc.CheckHealth(context.Background()))

	svc = NewService(&fakeDriver{}, "llama3.2")
	require.Error(t, svc.CheckHealth(context.Background()))
}
