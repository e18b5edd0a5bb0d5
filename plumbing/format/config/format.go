package config

// RepositoryFormatVersion is the value of core.repositoryformatversion,
// as defined at:
//
//	https://git-scm.com/docs/repository-version
type RepositoryFormatVersion string

const (
	// Version0 is the format written by every repository this core
	// creates: plain loose objects, a single v2 index, and no
	// extensions.* keys.
	Version0 RepositoryFormatVersion = "0"

	// DefaultRepositoryFormatVersion is written into every new
	// repository's config.
	DefaultRepositoryFormatVersion = Version0
)
