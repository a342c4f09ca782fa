// Package guardrail gates raw user input and the final synthesized output
// with an allow/deny classifier. The classifier is consumed as a boolean plus
// replacement message; its verdict is a policy outcome, never an error. The
// model-backed implementation fails open on transport problems so a flaky
// classifier cannot take the concierge down.
package guardrail

import (
	"context"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/logging"
	"github.com/hupe1980/confcierge/model"
)

// Canned replacement messages for rejected content.
const (
	InputRejectMessage  = "Please keep your message on the topic of conference schedule planning."
	OutputRejectMessage = "I can't provide that. How can I help with your conference schedule?"
)

// maxClassifiedChars bounds how much text is sent to the classifier.
const maxClassifiedChars = 2000

// Guardrail classifies a piece of text as allowed or not, with a message to
// show the user when it is not.
type Guardrail interface {
	CheckInput(ctx context.Context, userMessage string) (allowed bool, message string)
	CheckOutput(ctx context.Context, assistantReply string) (allowed bool, message string)
}

const classifierInstructions = "You classify user messages for a conference schedule planning assistant. " +
	"Allow (YES): anything on-topic (schedule, talks, planning), greetings (e.g. hi, hello, hey there), small talk, thanks, or harmless conversation openers. " +
	"Reject (NO) only: harmful/abusive content, or messages that are clearly off-topic and cannot lead to schedule help (e.g. recipe requests, sports scores). " +
	"When in doubt, say YES."

var classifierSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"allowed": map[string]any{"type": "boolean", "description": "Whether the message is allowed."},
		"message": map[string]any{"type": "string", "description": "The message to show the user if the message is not allowed."},
	},
	"required":             []string{"allowed", "message"},
	"additionalProperties": false,
}

// Options configure the Classifier.
type Options struct {
	Logger logging.Logger
}

// Classifier is the model-backed Guardrail.
type Classifier struct {
	model  model.Model
	logger logging.Logger
}

// NewClassifier constructs a Classifier over the given model.
func NewClassifier(m model.Model, optFns ...func(o *Options)) *Classifier {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Classifier{model: m, logger: opts.Logger}
}

// CheckInput classifies a raw user message before any planning happens.
// Blank input is rejected outright; classifier failures allow the message.
func (c *Classifier) CheckInput(ctx context.Context, userMessage string) (bool, string) {
	if isBlank(userMessage) {
		return false, InputRejectMessage
	}
	return c.classify(ctx, "Message: "+clip(userMessage), InputRejectMessage)
}

// CheckOutput classifies the final reply before it is surfaced. An empty
// reply is allowed but ships the canned fallback as display text.
func (c *Classifier) CheckOutput(ctx context.Context, assistantReply string) (bool, string) {
	if isBlank(assistantReply) {
		return true, OutputRejectMessage
	}
	return c.classify(ctx, "Reply: "+clip(assistantReply), OutputRejectMessage)
}

func (c *Classifier) classify(ctx context.Context, content, fallback string) (bool, string) {
	resp, err := c.model.Generate(ctx, model.Request{
		Instructions:   classifierInstructions,
		Messages:       []core.Message{core.UserMessage(content)},
		ResponseSchema: &model.ResponseSchema{Name: "guardrail_response", Schema: classifierSchema},
	})
	if err != nil {
		// Fail open: the guardrail must not take the conversation down.
		c.logger.Warn("guardrail.classify.failed", "error", err.Error())
		return true, fallback
	}
	var parsed struct {
		Allowed bool   `json:"allowed"`
		Message string `json:"message"`
	}
	if err := resp.Decode(&parsed); err != nil {
		c.logger.Warn("guardrail.classify.unparsable", "error", err.Error())
		return false, fallback
	}
	return parsed.Allowed, parsed.Message
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func clip(s string) string {
	if len(s) <= maxClassifiedChars {
		return s
	}
	return s[:maxClassifiedChars]
}

// AllowAll is a Guardrail that permits everything. Useful for tests and local
// development without a classifier model.
type AllowAll struct{}

// CheckInput implements Guardrail.
func (AllowAll) CheckInput(context.Context, string) (bool, string) { return true, "" }

// CheckOutput implements Guardrail.
func (AllowAll) CheckOutput(context.Context, string) (bool, string) { return true, "" }
