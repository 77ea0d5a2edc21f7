package chat

import "fmt"

type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureRateLimited
	FailureForbidden
	FailureAPI
	FailureHTTP
	FailureNetwork
	FailureNoKey
)

const (
	msgRateLimited = "Rate limit exceeded. Please wait a moment before trying again."
	msgForbidden   = "Access forbidden. Please check if your API key is valid and your region is supported."
	msgNetwork     = "Network error reaching AI."
	msgNoKey       = "No API key configured. Set GEMINI_API_KEY or ai.api_key."
	msgEmptyReply  = "Gemini connection lost."
)

// Result is the settled outcome of one request: either a reply or a
// classified failure.
type Result struct {
	Reply   string
	Failure FailureKind
	Status  int
	Message string
}

func (r Result) OK() bool { return r.Failure == FailureNone }

// Text is what the transcript shows for this result.
func (r Result) Text() string {
	switch r.Failure {
	case FailureNone:
		if r.Reply == "" {
			return msgEmptyReply
		}
		return r.Reply
	case FailureRateLimited:
		return msgRateLimited
	case FailureForbidden:
		return msgForbidden
	case FailureAPI:
		return "API Error: " + r.Message
	case FailureHTTP:
		return fmt.Sprintf("HTTP Error %d", r.Status)
	case FailureNoKey:
		return msgNoKey
	default:
		return msgNetwork
	}
}
