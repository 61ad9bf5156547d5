package core

// Principal identifies the acting editor (as asserted by the CMS token)
// for error-report attribution.
type Principal struct {
	ID       string
	Username string
	Email    string
}

// Logger is any leveled logger that can also ship reports to an external
// error tracker. args may include an error, a map of extras and a Principal.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
