package runner

// Result holds the captured output of one command execution.
type Result struct {
	RunID     string // unique identifier for this run
	ExitCode  int    // process exit code
	Output    []byte // combined stdout+stderr in arrival order (may be truncated)
	Truncated bool   // true if output exceeded the size cap
}
