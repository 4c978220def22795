package engine

// engineNotFoundError signals the ordered search for the engine file was
// exhausted without a match.
type engineNotFoundError struct{ name string }

func (e engineNotFoundError) Error() string { return "engine not found: " + e.name }

// ErrEngineNotFound constructs an engineNotFoundError.
func ErrEngineNotFound(name string) error { return engineNotFoundError{name: name} }

// IsEngineNotFound reports whether err indicates the engine search failed.
func IsEngineNotFound(err error) bool {
	_, ok := err.(engineNotFoundError)
	return ok
}

// archiveNotFoundError signals the archive path precondition failed before
// any native call.
type archiveNotFoundError struct{ path string }

func (e archiveNotFoundError) Error() string { return "archive file not found: " + e.path }

// ErrArchiveNotFound constructs an archiveNotFoundError.
func ErrArchiveNotFound(path string) error { return archiveNotFoundError{path: path} }

// IsArchiveNotFound reports whether err indicates a missing archive file.
func IsArchiveNotFound(err error) bool {
	_, ok := err.(archiveNotFoundError)
	return ok
}

// destinationNotFoundError signals the destination path precondition failed
// before any native call.
type destinationNotFoundError struct{ path string }

func (e destinationNotFoundError) Error() string {
	return "destination directory not found: " + e.path
}

// ErrDestinationNotFound constructs a destinationNotFoundError.
func ErrDestinationNotFound(path string) error { return destinationNotFoundError{path: path} }

// IsDestinationNotFound reports whether err indicates a missing destination.
func IsDestinationNotFound(err error) bool {
	_, ok := err.(destinationNotFoundError)
	return ok
}

// engineUnavailableError signals the native binding is missing or failed to
// load (e.g. built without the 'mo2engine' tag, dlopen failure, bad symbol)
// so callers can distinguish it from install failures.
type engineUnavailableError struct{ msg string }

func (e engineUnavailableError) Error() string { return e.msg }

// ErrEngineUnavailable constructs an engineUnavailableError.
func ErrEngineUnavailable(msg string) error { return engineUnavailableError{msg: msg} }

// IsEngineUnavailable reports whether err indicates a missing/failed native binding.
func IsEngineUnavailable(err error) bool {
	_, ok := err.(engineUnavailableError)
	return ok
}
