package provider

import (
	"context"

	"github.com/theoremus-urban-solutions/yatriq/intent"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

// ChatQuery is one user message plus the current search form.
type ChatQuery struct {
	Text    string              `json:"text" validate:"required"`
	Context model.IntentContext `json:"context"`
}

// Chat is the conversational assistant. It answers with a classified intent.
type Chat struct {
	rt *Runtime
}

func (c *Chat) Reply(ctx context.Context, q ChatQuery) model.Result[model.Intent] {
	return call(ctx, c.rt, model.CapChat, q, func() (model.Intent, error) {
		return intent.Classify(q.Text, q.Context), nil
	})
}
