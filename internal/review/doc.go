// Package review runs the parallel page review swarm. A coordinator fans the
// reviewable pages out to agent workers, file locks keep concurrent runs off
// the same page, and a progress artifact on disk makes the wave observable
// from outside the process.
package review
