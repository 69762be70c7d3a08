package format

import "os"

// File and directory modes used when writing output files.
const (
	FileUserReadWrite os.FileMode = 0o600
	FilePublicRead    os.FileMode = 0o644
	DirUserGroupRead  os.FileMode = 0o750
)
