package errcode

// Error code conventions:
// - 0: no error
// - 4xxx: recoverable business errors (validation failures, missing or duplicate resources)
// - 5xxx: system errors
const (
	OK              = 0
	Validation      = 4000
	ResourceMissing = 4004
	Duplicate       = 4009
	SystemError     = 5000
)
