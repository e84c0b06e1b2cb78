/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sandbox

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// memoryWatchdog is the best-effort half of the 128 MiB memory cap
// (SPEC_FULL.md §4.2): gopher-lua has no allocator hook, so this samples
// process-wide runtime.MemStats every 25 ms and cancels the sandbox's root context if the delta since
// construction exceeds cap. Because the sample is process-wide rather
// than goroutine-local, it is a coarse approximation under concurrent
// load — see DESIGN.md for why this divergence from a hard allocator cap
// was accepted.
type memoryWatchdog struct {
	cap      int64
	baseline uint64
	exceeded atomic.Bool
	stop     chan struct{}
}

func startMemoryWatchdog(cap int64, cancel context.CancelFunc) *memoryWatchdog {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w := &memoryWatchdog{cap: cap, baseline: m.Alloc, stop: make(chan struct{})}
	if cap <= 0 {
		return w
	}

	go func() {
		ticker := time.NewTicker(25 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				var cur runtime.MemStats
				runtime.ReadMemStats(&cur)
				if cur.Alloc > w.baseline && int64(cur.Alloc-w.baseline) > w.cap {
					w.exceeded.Store(true)
					cancel()
					return
				}
			}
		}
	}()
	return w
}

func (w *memoryWatchdog) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
}
