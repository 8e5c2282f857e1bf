package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerPool(t *testing.T) {
	t.Run("get and put", func(t *testing.T) {
		timer1 := GetTimer(time.Second)
		require.NotNil(t, timer1)

		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		require.NotNil(t, timer2)

		<-timer2.C
		PutTimer(timer2)
	})

	t.Run("put active timer", func(t *testing.T) {
		timer1 := GetTimer(100 * time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		PutTimer(timer1)

		// A reused timer must fire after its new duration, not the
		// remainder of the old one.
		begin := time.Now()
		timer2 := GetTimer(300 * time.Millisecond)

		select {
		case tick := <-timer2.C:
			require.GreaterOrEqual(t, tick.Sub(begin), 270*time.Millisecond)
		case <-time.After(400 * time.Millisecond):
			t.Error("timer did not fire within 400ms")
		}
		PutTimer(timer2)
	})

	t.Run("concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				timer := GetTimer(10 * time.Millisecond)
				defer PutTimer(timer)
				<-timer.C
			}()
		}
		wg.Wait()
	})
}
