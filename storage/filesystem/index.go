//nolint:revive // interface methods don't need individual comments
package filesystem

import (
	"bufio"
	"os"

	"github.com/vesi-vcs/vesi/plumbing/format/index"
	"github.com/vesi-vcs/vesi/storage/filesystem/dotgit"
)

// IndexStorage reads and writes the single staging file.
type IndexStorage struct {
	dir *dotgit.DotGit
}

// NewIndexStorage returns an IndexStorage rooted at dir.
func NewIndexStorage(dir *dotgit.DotGit) *IndexStorage {
	return &IndexStorage{dir: dir}
}

// SetIndex encodes idx and replaces the on-disk index file.
func (s *IndexStorage) SetIndex(idx *index.Index) (err error) {
	f, err := s.dir.IndexWriter()
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := index.NewEncoder(bw).Encode(idx); err != nil {
		return err
	}

	return bw.Flush()
}

// Index reads the on-disk index file, returning a fresh, empty index
// if none exists yet.
func (s *IndexStorage) Index() (*index.Index, error) {
	idx := index.NewIndex()

	f, err := s.dir.Index()
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := index.NewDecoder(f).Decode(idx); err != nil {
		return nil, err
	}

	return idx, nil
}
