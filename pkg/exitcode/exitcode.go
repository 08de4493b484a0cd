// Package exitcode provides standardized exit codes for goldencheck
package exitcode

// Exit codes for the goldencheck CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	Mismatch        = 3 // reference files are not accepted
	VCSError        = 4
	FileSystemError = 5
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case Mismatch:
		return "Reference files not accepted"
	case VCSError:
		return "Version control error"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}
