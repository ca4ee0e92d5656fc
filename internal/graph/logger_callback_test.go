package graph

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	ecmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/CortexFX/internal/logger"
)

func TestLoggerCallbackLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "debug", Format: "text", Output: &buf})
	cb := NewLoggerCallback(log)
	info := &callbacks.RunInfo{Name: "forex_model", Type: "OpenAI", Component: components.ComponentOfChatModel}

	ctx := cb.OnStart(context.Background(), info, nil)
	cb.OnEnd(ctx, info, &ecmodel.CallbackOutput{
		Message:    schema.AssistantMessage("{}", nil),
		TokenUsage: &ecmodel.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	})
	cb.OnError(ctx, info, errors.New("timeout"))

	out := buf.String()
	for _, want := range []string{"node start", "node end", "total_tokens=15", "node error", "timeout", "node=forex_model"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerCallbackQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	cb := NewLoggerCallback(logger.New(logger.Options{Level: "info", Output: &buf}))
	cb.OnStart(context.Background(), &callbacks.RunInfo{Name: "forex_prompt"}, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output at info level, got %q", buf.String())
	}
}
