// Package dotgit translates the repository metadata directory's fixed
// layout (objects/, refs/, HEAD, config, index, info/exclude) into
// billy.Filesystem operations.
package dotgit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/vesi-vcs/vesi/plumbing"
)

const (
	headPath    = "HEAD"
	configPath  = "config"
	excludePath = "info/exclude"
	indexPath   = "index"

	objectsPath = "objects"
	refsPath    = "refs"
)

// ErrIsDir is returned when a ref name collides with an existing
// directory (for example requesting "refs/heads/feature" when
// "refs/heads/feature/x" already exists).
var ErrIsDir = errors.New("reference name collides with an existing directory")

// DotGit gives path-aware access to the files inside a repository's
// metadata directory.
type DotGit struct {
	fs billy.Filesystem
}

// New returns a DotGit rooted at fs, the repository's metadata
// directory itself (not the worktree).
func New(fs billy.Filesystem) *DotGit {
	return &DotGit{fs: fs}
}

// Initialize lays out a fresh metadata directory: objects/,
// refs/heads/, refs/tags/, branches/, HEAD pointing at
// refs/heads/master, a description file, and a minimal config.
func (d *DotGit) Initialize() error {
	for _, dir := range []string{objectsPath, refsPath + "/heads", refsPath + "/tags", "branches"} {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if _, err := d.fs.Stat(headPath); os.IsNotExist(err) {
		if err := d.writeFile(headPath, "ref: refs/heads/master\n"); err != nil {
			return err
		}
	}

	if _, err := d.fs.Stat("description"); os.IsNotExist(err) {
		const initialDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"
		if err := d.writeFile("description", initialDescription); err != nil {
			return err
		}
	}

	if _, err := d.fs.Stat(configPath); os.IsNotExist(err) {
		const initialConfig = "[core]\n" +
			"\trepositoryformatversion = 0\n" +
			"\tfilemode = false\n" +
			"\tbare = false\n"
		if err := d.writeFile(configPath, initialConfig); err != nil {
			return err
		}
	}

	return nil
}

// writeFile replaces path atomically: content lands in a temp file in
// path's parent directory, renamed onto path once fully written.
func (d *DotGit) writeFile(path, content string) error {
	w, err := d.createAtomic(path)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte(content)); err != nil {
		w.abort()
		return err
	}

	return w.Close()
}

// createAtomic opens a temporary file beside path, creating its parent
// directory as needed. The returned writer renames the temp file onto
// path when closed cleanly, so a crash or error mid-write never leaves
// path truncated.
func (d *DotGit) createAtomic(path string) (*atomicWriter, error) {
	dir := parentDir(path)
	if dir != "" {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	tmp, err := d.fs.TempFile(dir, ".tmp-"+baseName(path)+"-")
	if err != nil {
		return nil, err
	}

	return &atomicWriter{File: tmp, fs: d.fs, target: path}, nil
}

// atomicWriter renames its backing temp file onto target on a clean
// Close. A Close that fails to write out its buffered data removes the
// temp file instead of renaming it into place.
type atomicWriter struct {
	billy.File
	fs     billy.Filesystem
	target string
}

func (w *atomicWriter) Close() error {
	if err := w.File.Close(); err != nil {
		w.fs.Remove(w.File.Name())
		return err
	}
	return w.fs.Rename(w.File.Name(), w.target)
}

func (w *atomicWriter) abort() {
	w.File.Close()
	w.fs.Remove(w.File.Name())
}

func baseName(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// ConfigWriter opens the config file for atomic replacement.
func (d *DotGit) ConfigWriter() (io.WriteCloser, error) {
	return d.createAtomic(configPath)
}

// Config opens the config file for reading.
func (d *DotGit) Config() (billy.File, error) {
	return d.fs.Open(configPath)
}

// IndexWriter opens the index file for atomic replacement.
func (d *DotGit) IndexWriter() (io.WriteCloser, error) {
	return d.createAtomic(indexPath)
}

// Index opens the index file for reading.
func (d *DotGit) Index() (billy.File, error) {
	return d.fs.Open(indexPath)
}

// ExcludeFile opens info/exclude for reading.
func (d *DotGit) ExcludeFile() (billy.File, error) {
	return d.fs.Open(excludePath)
}

// objectPath returns the sharded on-disk path for h: objects/aa/bbbb....
func objectPath(h plumbing.Hash) string {
	s := h.String()
	return objectsPath + "/" + s[0:2] + "/" + s[2:]
}

// NewObjectTemp opens a new temporary file under objects/ for writing
// a loose object, creating objects/ as needed. The caller must rename
// the returned temporary file into place via CommitObject once the
// content (and its hash) is known.
func (d *DotGit) NewObjectTemp() (billy.File, error) {
	if err := d.fs.MkdirAll(objectsPath, 0o755); err != nil {
		return nil, err
	}
	return d.fs.TempFile(objectsPath, "tmp_obj_")
}

// CommitObject moves a temp file written by NewObjectTemp into its
// final sharded location for h. It is a no-op, after removing the temp
// file, if the object already exists (hash stability: writing an
// already-present object never changes its file on disk).
func (d *DotGit) CommitObject(tempName string, h plumbing.Hash) error {
	final := objectPath(h)

	if _, err := d.fs.Stat(final); err == nil {
		return d.fs.Remove(tempName)
	}

	dir := objectsPath + "/" + h.String()[0:2]
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return d.fs.Rename(tempName, final)
}

// Object opens the loose object file for h, if present.
func (d *DotGit) Object(h plumbing.Hash) (billy.File, error) {
	return d.fs.Open(objectPath(h))
}

// HasObject reports whether a loose object file exists for h.
func (d *DotGit) HasObject(h plumbing.Hash) bool {
	_, err := d.fs.Stat(objectPath(h))
	return err == nil
}

// ObjectsWithPrefix returns every object hash whose hex string begins
// with prefix (already lowercased), scanning only the matching shard
// directory (or every shard directory, for a prefix shorter than two
// characters).
func (d *DotGit) ObjectsWithPrefix(prefix string) ([]plumbing.Hash, error) {
	var shards []string
	if len(prefix) >= 2 {
		shards = []string{prefix[0:2]}
	} else {
		fis, err := d.fs.ReadDir(objectsPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		for _, fi := range fis {
			if fi.IsDir() && len(fi.Name()) == 2 && isHex(fi.Name()) {
				shards = append(shards, fi.Name())
			}
		}
	}

	var hashes []plumbing.Hash
	for _, shard := range shards {
		fis, err := d.fs.ReadDir(objectsPath + "/" + shard)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		for _, fi := range fis {
			full := shard + fi.Name()
			if !strings.HasPrefix(full, prefix) {
				continue
			}
			hashes = append(hashes, plumbing.NewHash(full))
		}
	}

	return hashes, nil
}

func isHex(s string) bool {
	for _, b := range []byte(s) {
		switch {
		case b >= '0' && b <= '9':
		case b >= 'a' && b <= 'f':
		case b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

// refPath returns the on-disk path of a loose reference file.
func refPath(name plumbing.ReferenceName) string {
	return string(name)
}

// SetRef writes a loose reference file for r, atomically.
func (d *DotGit) SetRef(r *plumbing.Reference) error {
	s := r.Strings()
	path := refPath(r.Name())

	if fi, err := d.fs.Stat(path); err == nil && fi.IsDir() {
		return ErrIsDir
	}

	return d.writeFile(path, s[1]+"\n")
}

func parentDir(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// ReadRef reads a single loose reference file by name, returning
// plumbing.ErrReferenceNotFound if it does not exist.
func (d *DotGit) ReadRef(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	f, err := d.fs.Open(refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, plumbing.ErrReferenceNotFound
		}
		return nil, err
	}
	defer f.Close()

	line, err := readTrimmedLine(f)
	if err != nil {
		return nil, err
	}

	return plumbing.NewReferenceFromStrings(string(name), line), nil
}

// RemoveRef deletes a loose reference file by name.
func (d *DotGit) RemoveRef(name plumbing.ReferenceName) error {
	err := d.fs.Remove(refPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Refs walks every directory under refs/ collecting each loose
// reference, plus HEAD itself.
func (d *DotGit) Refs() ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference

	if err := d.walkRefDir(refsPath, &refs); err != nil {
		return nil, err
	}

	if head, err := d.ReadRef(plumbing.HEAD); err == nil {
		refs = append(refs, head)
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, err
	}

	return refs, nil
}

func (d *DotGit) walkRefDir(dir string, refs *[]*plumbing.Reference) error {
	fis, err := d.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, fi := range fis {
		path := dir + "/" + fi.Name()
		if fi.IsDir() {
			if err := d.walkRefDir(path, refs); err != nil {
				return err
			}
			continue
		}

		ref, err := d.ReadRef(plumbing.ReferenceName(path))
		if err != nil {
			return err
		}
		*refs = append(*refs, ref)
	}

	return nil
}

func readTrimmedLine(f billy.File) (string, error) {
	s := bufio.NewScanner(f)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("empty reference file")
	}
	return strings.TrimSpace(s.Text()), nil
}
