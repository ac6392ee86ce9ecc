// Package filesystemcontext is the module-level documentation entry point
// for github.com/agilira/filesystem-context.
//
// filesystem-context is a sandboxed, read-only filesystem-access core for
// untrusted callers such as AI agent hosts. It exposes a user-approved set
// of directory roots, hardened path validation against symlink and
// traversal attacks, bounded directory traversal, and a ReDoS-safe
// parallel content-search engine.
//
// The core library lives in pkg/fscontext. The demo host in cmd/democli
// is built on the external github.com/agilira/orpheus CLI framework.
//
// Basic usage:
//
//	sandbox, err := fscontext.NewSandbox([]string{"/srv/project"})
//	resolved, err := sandbox.ValidateExistingDirectory("/srv/project/src")
//	walker := fscontext.NewWalker(sandbox)
//	entries, summary, err := walker.Walk(resolved, fscontext.WalkOptions{MaxDepth: 5})
//
// The full operation catalogue is the set of facade functions in
// pkg/fscontext/api.go: Read, MultiRead, List, Tree, AnalyzeDirectory,
// GlobSearch, ContentSearch, and ChecksumFile.
package filesystemcontext
