// CLAUDE:SUMMARY Bounded-concurrency batch helper: issues are embarrassingly parallel, one result slot per input.
package engine

import (
	"sync"

	"github.com/hazyhaar/gaceta/issue"
)

// Doc is one issue queued for batch processing.
type Doc struct {
	Issue issue.Issue
	Raw   string
}

// ProcessBatch processes documents concurrently, at most workers at a time.
// Issues share no state, so document granularity needs no locking; results
// come back in input order. workers < 1 means one.
func (e *Engine) ProcessBatch(docs []Doc, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(docs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, d := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, d Doc) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.Process(d.Issue, d.Raw)
		}(i, d)
	}
	wg.Wait()
	return results
}
