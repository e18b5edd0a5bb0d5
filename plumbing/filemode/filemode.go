// Package filemode implements the git tree-entry and index mode bits:
// a 4-bit object type plus 9 permission bits, stored as a big-endian
// uint32 in index entries; Bytes gives the little-endian form.
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode is a Git file mode, as used in tree entries and index entries.
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o40000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New parses the octal textual representation of a FileMode, as found
// in a tree entry or a `git diff-tree` line. Leading zeros are allowed.
func New(s string) (FileMode, error) {
	if s == "" {
		return Empty, fmt.Errorf("malformed file mode: empty string")
	}

	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("malformed file mode %q: %w", s, err)
	}

	return FileMode(n), nil
}

// NewFromOSFileMode translates an os.FileMode into the closest FileMode,
// or an error if there is no Git equivalent (device, named pipe,
// socket, temporary file).
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	if m.IsDir() {
		return Dir, nil
	}

	switch {
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	case m&os.ModeTemporary != 0:
		return Empty, fmt.Errorf("no equivalent file mode for temporary files")
	case m&os.ModeDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode for device files")
	case m&os.ModeNamedPipe != 0:
		return Empty, fmt.Errorf("no equivalent file mode for named pipes")
	case m&os.ModeSocket != 0:
		return Empty, fmt.Errorf("no equivalent file mode for sockets")
	case m&os.ModeCharDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode for character devices")
	}

	if isExecutable(m) {
		return Executable, nil
	}

	return Regular, nil
}

func isExecutable(m os.FileMode) bool {
	return m.Perm()&0o111 != 0
}

// Bytes returns the 4-byte little-endian encoding of m, as used by the
// packfile tree-entry codification.
func (m FileMode) Bytes() []byte {
	return []byte{
		byte(m),
		byte(m >> 8),
		byte(m >> 16),
		byte(m >> 24),
	}
}

// IsMalformed reports whether m is not one of the recognized file
// modes.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// String returns the 7-digit zero-padded octal representation of m.
func (m FileMode) String() string {
	return fmt.Sprintf("%07o", uint32(m))
}

// IsRegular reports whether m is a regular (non-executable) file mode.
func (m FileMode) IsRegular() bool {
	return m == Regular || m == Deprecated
}

// IsFile reports whether m names anything that is stored as file
// content (regular, deprecated, executable, or symlink).
func (m FileMode) IsFile() bool {
	switch m {
	case Regular, Deprecated, Executable, Symlink:
		return true
	default:
		return false
	}
}

// ToOSFileMode translates m into the closest os.FileMode.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir:
		return os.ModePerm | os.ModeDir, nil
	case Submodule:
		return os.ModePerm | os.ModeDir, nil
	case Regular, Deprecated:
		return os.FileMode(0o644), nil
	case Executable:
		return os.FileMode(0o755), nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	default:
		return os.FileMode(0), fmt.Errorf("malformed file mode: %s", m)
	}
}
