package lg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachAndFromContext(t *testing.T) {
	l := New(&Config{ServiceName: "test", Format: "console"})
	ctx := Attach(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextFallsBack(t *testing.T) {
	assert.Equal(t, defaultLogger{}, FromContext(context.Background()))
}

func TestFromZapNil(t *testing.T) {
	assert.Equal(t, Discard, FromZap(nil))
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, "", flatten())
	got := flatten(String("user", "alice"), Int("attempts", 3))
	assert.Contains(t, got, "alice")
	assert.Contains(t, got, "3")

	got = flatten(Err(errors.New("boom")))
	assert.Contains(t, got, "boom")
}
