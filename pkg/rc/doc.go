// Package rc reads and writes resource containers: a manifest.yaml plus a
// tree of project content, stored either as a directory or as a zip archive.
//
// This package is the primary integration point for applications. It wraps
// the accessor, model and version packages into one Container type.
//
// # Lifecycle
//
// A Container is Unopened until Open or Create returns it. Open reads the
// manifest (Loading) and either fails or returns a Ready container. Close
// moves it to Closed; every later call fails with E_CLOSED.
//
// # Concurrency Safety
//
//   - A Container is meant for one goroutine at a time. Archive writes are
//     serialized internally, but queries that run during a write may observe
//     either the old or the new archive.
//
//   - Streams returned by GetProjectContent are valid until the container is
//     closed or written to. Copy the bytes out before either happens.
//
//   - Containers for different paths are independent. Two Container values
//     for the same archive must not write concurrently; nothing coordinates
//     writers across processes.
//
// # Recommended Usage Pattern
//
//	c, err := rc.Open("en_ulb_gen.zip", rc.Options{})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	content, err := c.GetProjectContent("gen", "usfm")
//	if err != nil || content == nil {
//	    return err
//	}
//	for name, s := range content.Streams {
//	    // read s before the next write or Close
//	}
package rc
