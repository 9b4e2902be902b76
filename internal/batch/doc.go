// Package batch runs many media files through subtitle generation.
//
// Two pipelines coexist. Processor handles a directory strictly
// sequentially, persisting resumable state to a versioned JSON file in the
// output directory after every file and writing a markdown report at the
// end; one bad file never aborts the run. ConcurrentProcessor fans work
// out to a bounded worker pool and awaits results in submission order (so
// progress events follow submission, not completion, order); it keeps no
// resumable state.
package batch
