// Package worker runs independent tasks with bounded concurrency.
package worker

import (
	"fmt"
	"runtime"
	"sync"
)

// Pool bounds how many submitted tasks run at once. Wait joins every task
// submitted so far; a Pool can be reused after Wait returns.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	panics []any
}

// NewPool returns a pool running at most size tasks at once. A size below one
// means one task per CPU.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, size)}
}

func (p *Pool) Size() int {
	return cap(p.sem)
}

// Go blocks until a slot is free, then runs fn in its own goroutine.
func (p *Pool) Go(fn func()) {
	p.sem <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		defer func() {
			if r := recover(); r != nil {
				p.mu.Lock()
				p.panics = append(p.panics, r)
				p.mu.Unlock()
			}
		}()
		fn()
	}()
}

// Wait blocks until every submitted task has returned. It reports the first
// task panic, if any, as an error.
func (p *Pool) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.panics) == 0 {
		return nil
	}
	err := fmt.Errorf("worker task panicked: %v", p.panics[0])
	p.panics = nil
	return err
}
