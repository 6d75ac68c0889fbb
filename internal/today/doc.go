// Package today aggregates tasks from all TickTick projects and
// filters them down to the ones due on the current calendar day.
//
// Project task lists are fetched concurrently, but results are merged
// back into project enumeration order so the output is deterministic.
// A single project failing to fetch is recorded as a warning and does
// not abort the run; only the initial project listing is fatal.
package today
