// Package workers tracks background goroutines so shutdown can wait for them.
package workers

import (
	"log/slog"
	"sync"
)

var Global = NewWorker()

type Worker struct {
	wg *sync.WaitGroup
}

func NewWorker() *Worker {
	return &Worker{
		wg: &sync.WaitGroup{},
	}
}

// Go runs fn in a tracked goroutine. A panic in fn is logged under name
// instead of taking the process down.
func (w *Worker) Go(name string, fn func()) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("worker panicked", "worker", name, "panic", r)
			}
		}()

		fn()
	}()
}

func (w *Worker) Wait() {
	w.wg.Wait()
}
