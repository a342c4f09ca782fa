package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/confcierge/model"
)

func TestClassifier_Allows(t *testing.T) {
	mock := model.NewMockModel().EnqueueJSON(map[string]any{"allowed": true, "message": ""})
	c := NewClassifier(mock)

	allowed, _ := c.CheckInput(context.Background(), "hi there")
	assert.True(t, allowed)
}

func TestClassifier_Rejects(t *testing.T) {
	mock := model.NewMockModel().EnqueueJSON(map[string]any{
		"allowed": false,
		"message": "Please keep it about conferences.",
	})
	c := NewClassifier(mock)

	allowed, msg := c.CheckInput(context.Background(), "tell me a lasagna recipe")
	assert.False(t, allowed)
	assert.Equal(t, "Please keep it about conferences.", msg)
}

func TestClassifier_BlankInputRejected(t *testing.T) {
	c := NewClassifier(model.NewMockModel())

	allowed, msg := c.CheckInput(context.Background(), "   \n\t ")
	assert.False(t, allowed)
	assert.Equal(t, InputRejectMessage, msg)
}

func TestClassifier_BlankOutputAllowedWithFallback(t *testing.T) {
	c := NewClassifier(model.NewMockModel())

	allowed, msg := c.CheckOutput(context.Background(), "")
	assert.True(t, allowed)
	assert.Equal(t, OutputRejectMessage, msg)
}

func TestClassifier_FailsOpenOnModelError(t *testing.T) {
	mock := model.NewMockModel().EnqueueError(errors.New("rate limited"))
	c := NewClassifier(mock)

	allowed, msg := c.CheckInput(context.Background(), "plan my conference")
	assert.True(t, allowed)
	assert.Equal(t, InputRejectMessage, msg)
}

func TestClassifier_RejectsOnUnparsableVerdict(t *testing.T) {
	mock := model.NewMockModel().EnqueueText("not json")
	c := NewClassifier(mock)

	allowed, msg := c.CheckOutput(context.Background(), "some reply")
	assert.False(t, allowed)
	assert.Equal(t, OutputRejectMessage, msg)
}

func TestClassifier_ClipsLongInput(t *testing.T) {
	mock := model.NewMockModel().EnqueueJSON(map[string]any{"allowed": true, "message": ""})
	c := NewClassifier(mock)

	long := make([]byte, 3*maxClassifiedChars)
	for i := range long {
		long[i] = 'a'
	}
	c.CheckInput(context.Background(), string(long))

	reqs := mock.Requests()
	assert.LessOrEqual(t, len(reqs[0].Messages[0].Content), maxClassifiedChars+len("Message: "))
}

func TestAllowAll(t *testing.T) {
	var g Guardrail = AllowAll{}
	allowed, _ := g.CheckInput(context.Background(), "anything")
	assert.True(t, allowed)
	allowed, _ = g.CheckOutput(context.Background(), "anything")
	assert.True(t, allowed)
}
