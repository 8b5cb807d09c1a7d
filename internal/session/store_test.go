package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameUser(t *testing.T) {
	locker := NewLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(123)
			defer unlock()

			// read-modify-write that would race without the lock
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locker.size())
}

func TestLocker_DifferentUsersIndependent(t *testing.T) {
	locker := NewLocker()

	unlockA := locker.Lock(1)
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock(2)
		unlockB()
		close(done)
	}()

	<-done
	unlockA()
	assert.Equal(t, 0, locker.size())
}
