package filesystem

import (
	"os"

	formatcfg "github.com/vesi-vcs/vesi/plumbing/format/config"
	"github.com/vesi-vcs/vesi/storage/filesystem/dotgit"
)

// ConfigStorage reads and writes the repository's config file.
type ConfigStorage struct {
	dir *dotgit.DotGit
}

// NewConfigStorage returns a ConfigStorage rooted at dir.
func NewConfigStorage(dir *dotgit.DotGit) *ConfigStorage {
	return &ConfigStorage{dir: dir}
}

// Config decodes the config file, returning an empty Config if none
// exists yet.
func (s *ConfigStorage) Config() (*formatcfg.Config, error) {
	f, err := s.dir.Config()
	if err != nil {
		if os.IsNotExist(err) {
			return formatcfg.New(), nil
		}
		return nil, err
	}
	defer f.Close()

	cfg := formatcfg.New()
	if err := formatcfg.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetConfig encodes cfg and replaces the on-disk config file.
func (s *ConfigStorage) SetConfig(cfg *formatcfg.Config) (err error) {
	f, err := s.dir.ConfigWriter()
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()

	return formatcfg.NewEncoder(f).Encode(cfg)
}
