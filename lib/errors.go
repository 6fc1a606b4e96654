package lib

import "errors"

var (
	// ErrNvmNotFound means the vendored nvm.sh is missing. Nothing can run.
	ErrNvmNotFound = errors.New("nvm.sh not found")
	// ErrManifest means package.json could not be read or decoded.
	ErrManifest = errors.New("package.json unreadable")
	// ErrAlreadyExists is returned by CreateDefaultProject when the target
	// directory is already present.
	ErrAlreadyExists = errors.New("directory already exists")
	// ErrInvalidTemplate is returned for templates other than cra and vite.
	ErrInvalidTemplate = errors.New("template must be 'cra' or 'vite'")
	// ErrBusy means another process holds the project lock.
	ErrBusy = errors.New("project is locked by another process")
	ErrInvalidVersion = errors.New("invalid node version")
)
