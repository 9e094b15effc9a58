package mailer

import (
	"strings"
)

// Failure classes surfaced to users alongside the raw error.
const (
	ClassTimeout        = "timeout"
	ClassConnection     = "connection"
	ClassAuthentication = "authentication"
	ClassSSL            = "ssl"
	ClassUnknown        = "unknown"
)

// SendError wraps a transport error with its failure class.
type SendError struct {
	Class string
	Err   error
}

func (e *SendError) Error() string { return e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// Classify buckets a transport error by substring. Mail libraries do not
// expose typed errors for most of these conditions, so string matching is
// the only signal available.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline exceeded"):
		return ClassTimeout
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "network is unreachable") || strings.Contains(msg, "connection reset"):
		return ClassConnection
	// Certificate errors mention "authority", so the TLS check has to run
	// before the bare "auth" substring.
	case strings.Contains(msg, "tls") || strings.Contains(msg, "certificate") || strings.Contains(msg, "ssl"):
		return ClassSSL
	case strings.Contains(msg, "535") || strings.Contains(msg, "auth") || strings.Contains(msg, "username and password not accepted"):
		return ClassAuthentication
	default:
		return ClassUnknown
	}
}

// UserMessage maps a failure class to the message shown to the user.
func UserMessage(class string) string {
	switch class {
	case ClassTimeout:
		return "The mail server took too long to respond. Try again later."
	case ClassConnection:
		return "Could not reach the mail server. Check the host and port."
	case ClassAuthentication:
		return "The mail server rejected the credentials."
	case ClassSSL:
		return "Secure connection to the mail server failed."
	default:
		return "Sending failed for an unexpected reason."
	}
}
