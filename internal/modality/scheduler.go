package modality

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
)

// Task pairs a modality name with the producer that will run in its worker.
// Each task owns its producer instance and its own parameter copy; nothing
// mutable is shared across tasks.
type Task struct {
	Modality string
	Producer tool.Tool
	Params   tool.Params
	Timeout  time.Duration
}

// Results maps modality name to that modality's raw result. Each key is
// written by exactly one worker; the table is read only after Run returns.
type Results map[string]tool.Result

// Failed reports whether a result entry records a worker failure.
func (r Results) Failed(modality string) bool {
	res, ok := r[modality]
	return ok && res.String("status", "") == "failed"
}

// Run launches one worker per task, executes them concurrently, and blocks
// until every worker has terminated. There is no partial early return. A
// worker that errors, panics, or times out contributes a failed entry to
// the table; siblings are unaffected.
func Run(ctx context.Context, tasks []Task) Results {
	results := make(Results, len(tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			res := runTask(ctx, t)
			mu.Lock()
			results[t.Modality] = res
			mu.Unlock()
		}(t)
	}

	// Join barrier: fences all table writes before the caller reads.
	wg.Wait()
	return results
}

func failedResult(modality, errMsg string) tool.Result {
	return tool.Result{"modality": modality, "status": "failed", "error": errMsg}
}

// runTask executes one producer inside the worker's isolation boundary.
// Panics are contained here so one modality cannot halt another.
func runTask(ctx context.Context, t Task) (res tool.Result) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("panic: %v", r)
			ux.WorkerFail(t.Modality, msg)
			res = failedResult(t.Modality, msg)
		}
	}()

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	out, err := t.Producer.Call(ctx, t.Params)
	if err != nil {
		ux.WorkerFail(t.Modality, err.Error())
		return failedResult(t.Modality, err.Error())
	}
	return out
}
