package cmd

// exitError carries a process exit code through cobra's error return.
// Silent errors have already been reported to the user on stdout.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func silentExit(code int, err error) error {
	return &exitError{code: code, err: err, silent: true}
}
