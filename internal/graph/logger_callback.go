package graph

import (
	"context"
	"errors"
	"io"

	"github.com/cloudwego/eino/callbacks"
	ecmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// LoggerCallback logs eino node lifecycle events of the analysis chain at debug level.
type LoggerCallback struct {
	log *logrus.Logger
}

var _ callbacks.Handler = (*LoggerCallback)(nil)

func NewLoggerCallback(log *logrus.Logger) *LoggerCallback {
	return &LoggerCallback{log: log}
}

func (cb *LoggerCallback) entry(info *callbacks.RunInfo) *logrus.Entry {
	fields := logrus.Fields{}
	if info != nil {
		fields["node"] = info.Name
		fields["component"] = string(info.Component)
		fields["type"] = info.Type
	}
	return cb.log.WithFields(fields)
}

func (cb *LoggerCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	cb.entry(info).Debug("node start")
	return ctx
}

func (cb *LoggerCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	entry := cb.entry(info)
	if out := ecmodel.ConvCallbackOutput(output); out != nil && out.TokenUsage != nil {
		entry = entry.WithFields(logrus.Fields{
			"prompt_tokens":     out.TokenUsage.PromptTokens,
			"completion_tokens": out.TokenUsage.CompletionTokens,
			"total_tokens":      out.TokenUsage.TotalTokens,
		})
	}
	entry.Debug("node end")
	return ctx
}

func (cb *LoggerCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	cb.entry(info).WithError(err).Debug("node error")
	return ctx
}

func (cb *LoggerCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	defer input.Close()
	cb.entry(info).Debug("node stream start")
	return ctx
}

func (cb *LoggerCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	entry := cb.entry(info)
	go func() {
		defer output.Close() // the stream copy must always be drained and closed
		frames := 0
		for {
			_, err := output.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				entry.WithError(err).Debug("node stream recv error")
				return
			}
			frames++
		}
		entry.WithField("frames", frames).Debug("node stream end")
	}()
	return ctx
}
