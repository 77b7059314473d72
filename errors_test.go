package arena

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalLogDestination(t *testing.T) {
	var global, own bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&global, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	a := newTestArena(t, 64, WithName("frame"), WithLogger(slog.New(slog.NewTextHandler(&own, nil))))

	arr := NewArray[int32](a, 1)
	arr.Append(1)
	requireFatal(t, ErrFull, func() { arr.Append(2) })
	assert.Contains(t, global.String(), "container is full")
	assert.Empty(t, own.String())

	global.Reset()
	requireFatal(t, ErrArenaFull, func() { a.AllocBytes(128) })
	assert.Contains(t, own.String(), "arena is full")
	assert.Contains(t, own.String(), "arena=frame")
	assert.Contains(t, own.String(), "requested=128")
	assert.Empty(t, global.String())
}
