package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool(t *testing.T) {
	buf := Global.GetBuffer()
	buf.WriteString("<gpx/>")
	Global.PutBuffer(buf)

	again := Global.GetBuffer()
	assert.Equal(t, 0, again.Len())
	Global.PutBuffer(again)
}

func TestBufferPool_DropsLargeBuffers(t *testing.T) {
	large := bytes.NewBuffer(make([]byte, 0, maxRetainedBuffer+1))
	assert.NotPanics(t, func() { Global.PutBuffer(large) })
	assert.NotPanics(t, func() { Global.PutBuffer(nil) })
}
