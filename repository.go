package vesi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/vesi-vcs/vesi/config"
	"github.com/vesi-vcs/vesi/internal/revision"
	"github.com/vesi-vcs/vesi/plumbing"
	formatcfg "github.com/vesi-vcs/vesi/plumbing/format/config"
	"github.com/vesi-vcs/vesi/plumbing/object"
	"github.com/vesi-vcs/vesi/storage/filesystem"
)

// MetaDir is the name of the repository metadata directory.
const MetaDir = ".vesi"

// maxRefDepth bounds symbolic reference resolution, turning a cyclic
// chain into plumbing.ErrReferenceCycle instead of an infinite loop.
const maxRefDepth = 10

// Repository ties a worktree filesystem to its metadata-directory
// storage.
type Repository struct {
	Storage  *filesystem.Storage
	Worktree billy.Filesystem
}

// Init creates a fresh skeleton at path: the metadata directory's
// objects/, refs/heads/, refs/tags/, branches/, HEAD, description and
// config. The metadata directory must not already exist.
func Init(path string) (*Repository, error) {
	wt := osfs.New(path)

	if _, err := wt.Stat(MetaDir); err == nil {
		return nil, fmt.Errorf("%s: %w", MetaDir, os.ErrExist)
	}

	dot, err := wt.Chroot(MetaDir)
	if err != nil {
		return nil, err
	}

	s := filesystem.NewStorage(dot)
	if err := s.Init(); err != nil {
		return nil, err
	}

	return &Repository{Storage: s, Worktree: wt}, nil
}

// Open opens the repository rooted at path, validating its format
// version.
func Open(path string) (*Repository, error) {
	wt := osfs.New(path)

	dot, err := wt.Chroot(MetaDir)
	if err != nil {
		return nil, plumbing.ErrNotARepository
	}

	if _, err := dot.Stat("HEAD"); err != nil {
		return nil, plumbing.ErrNotARepository
	}

	s := filesystem.NewStorage(dot)
	if err := checkFormatVersion(s); err != nil {
		return nil, err
	}

	return &Repository{Storage: s, Worktree: wt}, nil
}

func checkFormatVersion(s *filesystem.Storage) error {
	cfg, err := repositoryConfig(s)
	if err != nil {
		return err
	}

	if v := cfg.Core.RepositoryFormatVersion; v != formatcfg.DefaultRepositoryFormatVersion {
		return fmt.Errorf("%w: repositoryformatversion %s", plumbing.ErrUnsupportedFormat, v)
	}

	return nil
}

// repositoryConfig reads and projects the repository's raw config
// file onto the typed config.Config view.
func repositoryConfig(s *filesystem.Storage) (*config.Config, error) {
	raw, err := s.Config()
	if err != nil {
		return nil, err
	}

	c := &config.Config{}
	if err := c.Unmarshal(raw); err != nil {
		return nil, err
	}

	return c, nil
}

// Find ascends from path until a directory containing MetaDir is
// found, then opens it. It fails with plumbing.ErrNotARepository if
// the filesystem root is reached first.
func Find(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(abs, MetaDir)); err == nil {
			return Open(abs)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, plumbing.ErrNotARepository
		}
		abs = parent
	}
}

// Identity reads the configured user.name/user.email, formatted
// "{name} <{email}>". Either being unset fails with
// plumbing.ErrMissingIdentity.
func (r *Repository) Identity() (string, error) {
	cfg, err := repositoryConfig(r.Storage)
	if err != nil {
		return "", err
	}

	if cfg.User.Name == "" || cfg.User.Email == "" {
		return "", plumbing.ErrMissingIdentity
	}

	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email), nil
}

// ResolveReference follows name (direct, or symbolic through its
// target chain) down to a hash reference.
func (r *Repository) ResolveReference(name plumbing.ReferenceName) (plumbing.Hash, error) {
	for i := 0; i < maxRefDepth; i++ {
		ref, err := r.Storage.Reference(name)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		if ref.Type() == plumbing.HashReference {
			return ref.Hash(), nil
		}

		name = ref.Target()
	}

	return plumbing.ZeroHash, plumbing.ErrReferenceCycle
}

// ResolveRevision implements the name resolution grammar: empty
// resolves to no candidates; HEAD resolves to at most one; a 4-40
// character lowercase hex prefix enumerates every matching loose
// object (zero, one, or several candidates); anything else is tried
// in turn against refs/tags/, refs/heads/, then refs/remotes/, the
// first existing one winning.
func (r *Repository) ResolveRevision(expr string) ([]plumbing.Hash, error) {
	parsed, err := revision.Parse(expr)
	if err != nil {
		return nil, err
	}

	switch parsed.Kind {
	case revision.Empty:
		return nil, nil

	case revision.Head:
		h, err := r.ResolveReference(plumbing.HEAD)
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []plumbing.Hash{h}, nil

	case revision.HashPrefix:
		return r.Storage.ObjectsWithPrefix(parsed.Prefix)

	default: // revision.RefName
		for _, name := range []plumbing.ReferenceName{
			plumbing.NewTagReferenceName(parsed.Name),
			plumbing.NewBranchReferenceName(parsed.Name),
			plumbing.ReferenceName("refs/remotes/" + parsed.Name),
		} {
			h, err := r.ResolveReference(name)
			if err == nil {
				return []plumbing.Hash{h}, nil
			}
			if !errors.Is(err, plumbing.ErrReferenceNotFound) {
				return nil, err
			}
		}

		return nil, nil
	}
}

// ResolveToType follows tag and commit indirections from h (a tag to
// its target object; a commit to its tree, only when want is a tree)
// until an object of type want is reached, failing with
// plumbing.ErrTypeMismatch at any other termination.
func (r *Repository) ResolveToType(h plumbing.Hash, want plumbing.ObjectType) (plumbing.Hash, error) {
	for {
		o, err := r.Storage.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		if o.Type() == want {
			return h, nil
		}

		switch o.Type() {
		case plumbing.TagObject:
			tag, err := object.GetTag(r.Storage, h)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			h = tag.Target

		case plumbing.CommitObject:
			if want != plumbing.TreeObject {
				return plumbing.ZeroHash, fmt.Errorf("%w: commit does not satisfy %s", plumbing.ErrTypeMismatch, want)
			}
			commit, err := object.GetCommit(r.Storage, h)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			h = commit.TreeHash

		default:
			return plumbing.ZeroHash, fmt.Errorf("%w: %s does not satisfy %s", plumbing.ErrTypeMismatch, o.Type(), want)
		}
	}
}
