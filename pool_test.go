package dssim

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryTask(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		var running, peak, done atomic.Int32
		p := newPool(n)
		for i := 0; i < 20; i++ {
			p.Go(func() error {
				cur := running.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				running.Add(-1)
				done.Add(1)
				return nil
			})
		}
		assert.NoError(t, p.Wait())
		assert.EqualValues(t, 20, done.Load())
		assert.LessOrEqual(t, peak.Load(), int32(max(n, 1)))
	}
}

func TestPoolReportsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var done atomic.Int32
	p := newPool(2)
	for i := 0; i < 5; i++ {
		p.Go(func() error {
			done.Add(1)
			if i == 2 {
				return boom
			}
			return nil
		})
	}
	assert.ErrorIs(t, p.Wait(), boom)
	assert.EqualValues(t, 5, done.Load())
}
