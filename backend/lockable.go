package tkbackend

import "sync"

// channelLocker hands the loop goroutine's turn to the lock holder. Once
// the loop has ended, Lock and Unlock return immediately.
type channelLocker struct {
	L    chan struct{}
	U    chan struct{}
	done chan struct{}
}

func newChannelLocker() *channelLocker {
	return &channelLocker{
		L:    make(chan struct{}),
		U:    make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (cl *channelLocker) Lock() {
	select {
	case cl.L <- struct{}{}:
	case <-cl.done:
	}
}

func (cl *channelLocker) Unlock() {
	select {
	case cl.U <- struct{}{}:
	case <-cl.done:
	}
}

// RunLockable runs the event loop in a separate goroutine and returns a
// sync.Locker for mutually exclusive execution with Process. While the lock
// is held no callback runs, so application state shared with callbacks can
// be changed safely from another goroutine.
//
// RunLockable also returns a channel, which receives one error value (nil
// after a normal exit) and is closed when the loop ends.
func (c *Connection) RunLockable() (sync.Locker, <-chan error) {
	lock := newChannelLocker()
	errChannel := make(chan error, 1)

	go func() {
		defer close(errChannel)
		defer close(lock.done)
		if c.state.Load() == stateNew {
			errChannel <- ErrNotStarted
			return
		}
		for {
			select {
			case _, open := <-c.processSignal:
				if err := c.Process(); err != nil {
					errChannel <- err
					return
				}
				if c.exited.Load() {
					errChannel <- nil
					return
				}
				if !open {
					errChannel <- c.Err()
					return
				}
			case <-lock.L:
				<-lock.U
			}
		}
	}()

	return lock, errChannel
}
