package scheduler

import (
	"sync"

	"github.com/RSM610/Web-Reaper/internal/model"
)

// state is the shared frontier guarded by a single mutex. The condition
// variable wakes the coordinator whenever the frontier or the worker count
// changes, so termination (frontier empty and no worker active) is detected
// without polling.
type state struct {
	mu   sync.Mutex
	cond *sync.Cond

	// pending is the FIFO frontier of sites waiting to be crawled.
	pending []model.PendingTask

	// discovered holds every hostname ever enqueued. A hostname is crawled
	// at most once per run, regardless of how many sites link to it.
	discovered map[string]bool

	// active counts workers currently crawling a site.
	active int
}

func newState(seeds []string) *state {
	st := &state{discovered: make(map[string]bool, len(seeds))}
	st.cond = sync.NewCond(&st.mu)

	for _, hostname := range seeds {
		if hostname == "" || st.discovered[hostname] {
			continue
		}
		st.discovered[hostname] = true
		st.pending = append(st.pending, model.PendingTask{Hostname: hostname, Depth: 0})
	}
	return st
}

// enqueue appends hostnames at the given depth, skipping any seen before,
// and stops once limit new sites have been added. Skipped duplicates do not
// count against the limit; a negative limit means no bound. It returns the
// number actually added.
func (st *state) enqueue(hostnames []string, depth, limit int) int {
	added := 0
	for _, hostname := range hostnames {
		if limit >= 0 && added >= limit {
			break
		}
		if st.discovered[hostname] {
			continue
		}
		st.discovered[hostname] = true
		st.pending = append(st.pending, model.PendingTask{Hostname: hostname, Depth: depth})
		added++
	}
	return added
}
