package estimator

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnknownSubject is returned when a subject name has no registration.
var ErrUnknownSubject = errors.New("estimator: unknown subject")

// Subject is a self-contained function the estimator can time. The work must
// depend only on n so that repeated calls at the same size are comparable.
type Subject struct {
	Name    string
	Summary string
	Fn      func(n int)
}

// Subjects returns the built-in measurement subjects sorted by name.
func Subjects() []Subject {
	subjects := builtinSubjects()
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects
}

// LookupSubject finds a built-in subject by name.
func LookupSubject(name string) (Subject, bool) {
	for _, subject := range builtinSubjects() {
		if subject.Name == name {
			return subject, true
		}
	}
	return Subject{}, false
}

func builtinSubjects() []Subject {
	return []Subject{
		{
			Name:    "slice-append",
			Summary: "appends n ints to a freshly allocated slice",
			Fn:      subjectSliceAppend,
		},
		{
			Name:    "map-get",
			Summary: "performs n lookups against a fixed hash table",
			Fn:      subjectMapGet,
		},
		{
			Name:    "sort-ints",
			Summary: "sorts a scrambled copy of the first n pool ints",
			Fn:      subjectSortInts,
		},
		{
			Name:    "binary-search",
			Summary: "single binary search over a sorted table of n ints",
			Fn:      subjectBinarySearch,
		},
		{
			Name:    "pair-loop",
			Summary: "accumulates over every ordered pair of n elements",
			Fn:      subjectPairLoop,
		},
	}
}

// subjectPoolSize bounds the shared input tables. It must stay a power of
// two so the scramble multiplier permutes indices without collisions.
const subjectPoolSize = 1 << 17

var (
	poolOnce      sync.Once
	sortedPool    []int
	scrambledPool []int
	lookupPool    map[int]int

	// sink keeps subject results observable so the work cannot be
	// optimized away. Subjects run sequentially.
	sink int
)

func pools() ([]int, []int, map[int]int) {
	poolOnce.Do(func() {
		sortedPool = make([]int, subjectPoolSize)
		scrambledPool = make([]int, subjectPoolSize)
		lookupPool = make(map[int]int, subjectPoolSize)
		for i := range sortedPool {
			sortedPool[i] = i
			// Knuth multiplicative scramble: deterministic and collision
			// free on a power-of-two range.
			scrambledPool[i] = (i * 2654435761) & (subjectPoolSize - 1)
			lookupPool[i] = i
		}
	})
	return sortedPool, scrambledPool, lookupPool
}

func clampPool(n int) int {
	if n > subjectPoolSize {
		return subjectPoolSize
	}
	if n < 1 {
		return 1
	}
	return n
}

func subjectSliceAppend(n int) {
	out := make([]int, 0)
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	sink += len(out)
}

func subjectMapGet(n int) {
	_, _, table := pools()
	hits := 0
	for i := 0; i < n; i++ {
		if _, ok := table[i&(subjectPoolSize-1)]; ok {
			hits++
		}
	}
	sink += hits
}

func subjectSortInts(n int) {
	n = clampPool(n)
	_, scrambled, _ := pools()
	work := make([]int, n)
	copy(work, scrambled[:n])
	sort.Ints(work)
	sink += work[0]
}

func subjectBinarySearch(n int) {
	n = clampPool(n)
	sorted, _, _ := pools()
	sink += sort.SearchInts(sorted[:n], n-1)
}

func subjectPairLoop(n int) {
	total := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			total += i ^ j
		}
	}
	sink += total
}
