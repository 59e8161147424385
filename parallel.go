// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "sync"

// parallelFor calls f(i) for every i in [0, n), each on its own goroutine,
// and waits for all of them to finish. The per-level node loops in
// matmat.go, factorize.go and solve.go use this (assemble.go uses
// parallelForErr below): distinct
// nodes at the same level touch disjoint row-ranges, so no additional
// synchronization is required between calls.
func parallelFor(n int, f func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			f(i)
		}(i)
	}
	wg.Wait()
}

// parallelForErr is parallelFor for a per-index operation that can fail. One
// of the errors observed (whichever goroutine takes the mutex first) is
// returned once every goroutine has finished; all goroutines run to
// completion rather than being cancelled, since node i's work never depends
// on node j's outcome.
func parallelForErr(n int, f func(i int) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if err := f(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return firstErr
}
