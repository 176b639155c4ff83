package ports

import (
	"context"
)

// Transport fetches a remote resource into a local file.
// A non-2xx response is a failure and must not leave dest behind.
type Transport interface {
	Download(ctx context.Context, url, dest string) error
}

// FileSystem is the file access used by pipeline actions.
type FileSystem interface {
	Exists(path string) bool
	IsDir(path string) bool
	ReadString(path string) (string, error)
	WriteString(path, content string) error
	// Delete removes a single file. A missing file is not an error.
	Delete(path string) error
	// DeleteDirectory removes a directory tree.
	DeleteDirectory(path string) error
	// MoveContentsUp moves every entry of dir into its parent and removes dir.
	MoveContentsUp(dir string) error
	// List returns the names of the direct children of dir, sorted.
	List(dir string) ([]string, error)
	MkdirAll(path string) error
}

// Archiver extracts archives.
type Archiver interface {
	Unzip(ctx context.Context, archive, destDir string) error
}

// Checksummer verifies file digests.
type Checksummer interface {
	// Verify reports whether the digest of path computed with algorithm equals
	// expectedHex, compared case-insensitively. Unknown algorithms are an error.
	Verify(path, algorithm, expectedHex string) (bool, error)
}

// CommandRunner executes external programs such as git.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (output string, err error)
}
