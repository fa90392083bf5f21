package scenario

import (
	"fmt"
	"math/rand"
)

// Circular builds the classic circular-wait demo: thread i holds resource
// ((i-1) mod r)+1 and requests resource (i mod r)+1. With threads == resources
// this is a single ring deadlocking every participant; the two-thread,
// two-resource case is the textbook AB/BA example.
//
// When there are more threads than resources, only the first r threads get a
// holding (resources are single-instance); the rest just wait on the ring.
// Counts below one are clamped to one.
func Circular(threads, resources int) Scenario {
	threads = max(threads, 1)
	resources = max(resources, 1)

	s := Scenario{Name: fmt.Sprintf("circular-%dx%d", threads, resources)}
	for i := 1; i <= threads; i++ {
		s.Threads = append(s.Threads, fmt.Sprintf("T%d", i))
	}
	for i := 1; i <= resources; i++ {
		s.Resources = append(s.Resources, fmt.Sprintf("R%d", i))
	}

	for i := 1; i <= threads; i++ {
		first := ((i - 1) % resources) + 1
		second := (i % resources) + 1
		if i <= resources {
			s.Holds = append(s.Holds, Hold{
				Thread:   fmt.Sprintf("T%d", i),
				Resource: fmt.Sprintf("R%d", first),
			})
		}
		s.Requests = append(s.Requests, Request{
			Thread:   fmt.Sprintf("T%d", i),
			Resource: fmt.Sprintf("R%d", second),
		})
	}
	return s
}

// Random builds a randomized scenario: each resource is held by a random
// thread, and each thread requests a random resource it does not hold.
// Randomness lives here, outside the engine, so analysis itself stays
// deterministic - the same rng seed reproduces the same scenario.
func Random(rng *rand.Rand, threads, resources int) Scenario {
	threads = max(threads, 1)
	resources = max(resources, 1)

	s := Scenario{Name: fmt.Sprintf("random-%dx%d", threads, resources)}
	for i := 1; i <= threads; i++ {
		s.Threads = append(s.Threads, fmt.Sprintf("T%d", i))
	}
	for i := 1; i <= resources; i++ {
		s.Resources = append(s.Resources, fmt.Sprintf("R%d", i))
	}

	held := make(map[string]string, resources) // resource -> thread
	for _, r := range s.Resources {
		t := s.Threads[rng.Intn(threads)]
		held[r] = t
		s.Holds = append(s.Holds, Hold{Thread: t, Resource: r})
	}

	for _, t := range s.Threads {
		r := s.Resources[rng.Intn(resources)]
		if held[r] == t {
			// Requesting an owned resource would be a self-deadlock;
			// keep those rare by skipping the request entirely.
			continue
		}
		s.Requests = append(s.Requests, Request{Thread: t, Resource: r})
	}
	return s
}
