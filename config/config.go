// Package config projects the generic section/option model of
// plumbing/format/config onto the specific keys this core reads and
// writes: core.*, user.*.
package config

import (
	"fmt"

	"github.com/vesi-vcs/vesi/plumbing/format/config"
)

const (
	coreSection = "core"
	userSection = "user"

	bareKey                    = "bare"
	fileModeKey                = "filemode"
	repositoryFormatVersionKey = "repositoryformatversion"
	nameKey                    = "name"
	emailKey                   = "email"
)

// Config is the typed view of a repository's config file that this
// core actually consults.
type Config struct {
	Core struct {
		// IsBare reports whether the repository has no worktree.
		IsBare bool
		// FileMode reports whether the executable bit of worktree
		// files is honored when comparing against the index.
		FileMode bool
		// RepositoryFormatVersion identifies the on-disk layout
		// version; Init always writes config.Version0.
		RepositoryFormatVersion config.RepositoryFormatVersion
	}

	User struct {
		// Name is the personal name recorded as commit/tag author
		// and committer.
		Name string
		// Email is the address recorded alongside Name.
		Email string
	}

	Raw *config.Config
}

// NewConfig returns a Config with sane repository defaults: not bare,
// filemode honored, format version 0.
func NewConfig() *Config {
	c := &Config{Raw: config.New()}
	c.Core.FileMode = true
	c.Core.RepositoryFormatVersion = config.DefaultRepositoryFormatVersion
	return c
}

// Unmarshal projects raw's core/user sections onto c's typed fields.
// raw is kept as c.Raw so round-tripping via Marshal preserves any
// section this core doesn't itself understand.
func (c *Config) Unmarshal(raw *config.Config) error {
	c.Raw = raw

	core := raw.Section(coreSection)
	c.Core.IsBare = core.Option(bareKey) == "true"
	c.Core.FileMode = core.Option(fileModeKey) != "false"
	if v := core.Option(repositoryFormatVersionKey); v != "" {
		c.Core.RepositoryFormatVersion = config.RepositoryFormatVersion(v)
	} else {
		c.Core.RepositoryFormatVersion = config.DefaultRepositoryFormatVersion
	}

	user := raw.Section(userSection)
	c.User.Name = user.Option(nameKey)
	c.User.Email = user.Option(emailKey)

	return nil
}

// Marshal writes c's typed fields back into c.Raw and returns it.
func (c *Config) Marshal() (*config.Config, error) {
	if c.Raw == nil {
		c.Raw = config.New()
	}

	core := c.Raw.Section(coreSection)
	core.SetOption(bareKey, fmt.Sprintf("%t", c.Core.IsBare))
	core.SetOption(fileModeKey, fmt.Sprintf("%t", c.Core.FileMode))
	core.SetOption(repositoryFormatVersionKey, string(c.Core.RepositoryFormatVersion))

	user := c.Raw.Section(userSection)
	if c.User.Name != "" {
		user.SetOption(nameKey, c.User.Name)
	}
	if c.User.Email != "" {
		user.SetOption(emailKey, c.User.Email)
	}

	return c.Raw, nil
}
