// Package estimator measures named benchmark subjects across increasing
// input sizes and fits the timings against candidate Big-O curves. The
// winning curve names the complexity class recorded in the reference pages.
package estimator
