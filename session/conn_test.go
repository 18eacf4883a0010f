package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPairCapturesStreamThread(t *testing.T) {
	scr := &script{}
	control, stream := scr.controlConn(t), scr.streamConn(t)

	p, err := openPair(pairDialer(control, stream), "db:3306", "u", "p", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.streamThread)
	assert.True(t, p.ownsControl)
}

func TestConnPairCloseOnce(t *testing.T) {
	scr := &script{}
	control, stream := scr.controlConn(t), scr.streamConn(t)
	p, err := openPair(pairDialer(control, stream), "db:3306", "u", "p", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.close()
		}()
	}
	wg.Wait()
	p.close()

	assert.True(t, stream.isClosed())
	assert.True(t, control.isClosed())
	kills := 0
	for _, q := range control.executed() {
		if strings.HasPrefix(q, "KILL") {
			kills++
		}
	}
	assert.Equal(t, 1, kills, "stream thread must be killed exactly once")
}
