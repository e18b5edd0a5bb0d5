package gitignore

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/vesi-vcs/vesi/plumbing/format/config"
)

const (
	ignoreFileName = ".vesignore"
	gitconfigFile  = ".gitconfig"
	systemFile     = "/etc/gitconfig"
)

// ReadPatterns collects the .vesignore pattern list for a single
// directory, scoped to domain, without descending into
// subdirectories. domain is the path, from the worktree root, of the
// directory fs itself represents; pass nil for the worktree root.
func ReadPatterns(fs billy.Filesystem, domain []string) ([]Pattern, error) {
	ps, err := readIgnoreFile(fs, domain, ignoreFileName)
	if err != nil {
		return nil, nil
	}
	return ps, nil
}

// ReadPatternsRecursive collects every .vesignore pattern list found
// while walking the worktree rooted at fs, depth first, each scoped to
// the directory it lives in. metaDir names the repository metadata
// directory to skip (e.g. ".vesi").
func ReadPatternsRecursive(fs billy.Filesystem, domain []string, metaDir string) ([]Pattern, error) {
	ps, err := ReadPatterns(fs, domain)
	if err != nil {
		return nil, err
	}

	fis, err := fs.ReadDir(joinDomain(fs, domain))
	if err != nil {
		return ps, nil
	}

	for _, fi := range fis {
		if !fi.IsDir() || fi.Name() == metaDir {
			continue
		}

		childDomain := make([]string, 0, len(domain)+1)
		childDomain = append(childDomain, domain...)
		childDomain = append(childDomain, fi.Name())

		childPs, err := ReadPatternsRecursive(fs, childDomain, metaDir)
		if err != nil {
			return nil, err
		}

		ps = append(ps, childPs...)
	}

	return ps, nil
}

// ByDirectory walks the worktree rooted at fs, collecting the
// .vesignore pattern list for every directory (including the root,
// keyed ""), keyed by its slash-joined path from the root. metaDir
// names the repository metadata directory to skip. The result is
// suitable for Ignore.ByDir.
func ByDirectory(fs billy.Filesystem, metaDir string) (map[string][]Pattern, error) {
	out := make(map[string][]Pattern)
	if err := collectByDirectory(fs, nil, metaDir, out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectByDirectory(fs billy.Filesystem, domain []string, metaDir string, out map[string][]Pattern) error {
	ps, err := ReadPatterns(fs, domain)
	if err != nil {
		return err
	}
	out[strings.Join(domain, "/")] = ps

	fis, err := fs.ReadDir(joinDomain(fs, domain))
	if err != nil {
		return nil
	}

	for _, fi := range fis {
		if !fi.IsDir() || fi.Name() == metaDir {
			continue
		}

		childDomain := make([]string, 0, len(domain)+1)
		childDomain = append(childDomain, domain...)
		childDomain = append(childDomain, fi.Name())

		if err := collectByDirectory(fs, childDomain, metaDir, out); err != nil {
			return err
		}
	}

	return nil
}

func joinDomain(fs billy.Filesystem, domain []string) string {
	if len(domain) == 0 {
		return "."
	}
	return fs.Join(domain...)
}

// readIgnoreFile parses name, a path relative to domain inside fs, if
// it exists, as an ignore pattern file scoped to domain.
func readIgnoreFile(fs billy.Filesystem, domain []string, name string) ([]Pattern, error) {
	path := name
	if len(domain) != 0 {
		path = fs.Join(joinDomain(fs, domain), name)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ps []Pattern
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		ps = append(ps, ParsePattern(line, domain))
	}

	return ps, s.Err()
}

// LoadGlobalPatterns reads the current user's global excludesfile, as
// named by core.excludesfile in ~/.gitconfig, from fs.
func LoadGlobalPatterns(fs billy.Filesystem) ([]Pattern, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}

	excludesFile, err := readExcludesFile(fs, fs.Join(home, gitconfigFile))
	if err != nil || excludesFile == "" {
		return nil, nil
	}

	return loadPatternsFile(fs, expandHome(fs, home, excludesFile))
}

// LoadSystemPatterns reads the system-wide excludesfile, as named by
// core.excludesfile in /etc/gitconfig, from fs.
func LoadSystemPatterns(fs billy.Filesystem) ([]Pattern, error) {
	excludesFile, err := readExcludesFile(fs, systemFile)
	if err != nil || excludesFile == "" {
		return nil, nil
	}

	return loadPatternsFile(fs, excludesFile)
}

func readExcludesFile(fs billy.Filesystem, configPath string) (string, error) {
	f, err := fs.Open(configPath)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	cfg := config.New()
	if err := config.NewDecoder(f).Decode(cfg); err != nil {
		return "", err
	}

	return cfg.Section("core").Option("excludesfile"), nil
}

// expandHome resolves a leading "~/" or "~user/" in path against home,
// the current user's home directory.
func expandHome(fs billy.Filesystem, home, path string) string {
	if unquoted, err := unquoteIfNeeded(path); err == nil {
		path = unquoted
	}

	if strings.HasPrefix(path, "~/") {
		return fs.Join(home, path[2:])
	}

	if strings.HasPrefix(path, "~") {
		rest := path[1:]
		var username, tail string
		if i := strings.Index(rest, "/"); i >= 0 {
			username, tail = rest[:i], rest[i+1:]
		} else {
			username = rest
		}

		if u, err := user.Lookup(username); err == nil {
			return fs.Join(u.HomeDir, tail)
		}

		return fs.Join(filepath.Dir(home), username, tail)
	}

	return path
}

func unquoteIfNeeded(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strconv.Unquote(s)
	}
	return s, nil
}

func loadPatternsFile(fs billy.Filesystem, path string) ([]Pattern, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	var ps []Pattern
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, ParsePattern(line, nil))
	}

	return ps, s.Err()
}
