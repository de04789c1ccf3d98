package domain

import "fmt"

const (
	ModelDecommissionedMessage = "Error: The vision model has been updated. Please check the latest Groq documentation for supported models."
	httpErrorMessageFormat     = "Error: Unable to get response from Groq API. Status: %d"
)

type CompletionKind int

const (
	CompletionOK CompletionKind = iota
	CompletionHTTPError
	CompletionModelDecommissioned
	CompletionTransportError
)

func (k CompletionKind) String() string {
	switch k {
	case CompletionOK:
		return "ok"
	case CompletionHTTPError:
		return "http_error"
	case CompletionModelDecommissioned:
		return "model_decommissioned"
	case CompletionTransportError:
		return "transport_error"
	}
	return "unknown"
}

// Completion is the outcome of one provider call. Only the fields that
// belong to Kind are set.
type Completion struct {
	Kind       CompletionKind
	Reply      string
	StatusCode int
	Err        error
}

func CompletionReply(text string) Completion {
	return Completion{Kind: CompletionOK, Reply: text}
}

func CompletionHTTPFailure(statusCode int) Completion {
	return Completion{Kind: CompletionHTTPError, StatusCode: statusCode}
}

func CompletionDecommissioned(statusCode int) Completion {
	return Completion{Kind: CompletionModelDecommissioned, StatusCode: statusCode}
}

func CompletionTransportFailure(err error) Completion {
	return Completion{Kind: CompletionTransportError, Err: err}
}

// Text converts the outcome into the message shown to the user and stored as
// the assistant turn.
func (c Completion) Text() string {
	switch c.Kind {
	case CompletionOK:
		return c.Reply
	case CompletionModelDecommissioned:
		return ModelDecommissionedMessage
	case CompletionHTTPError:
		return fmt.Sprintf(httpErrorMessageFormat, c.StatusCode)
	case CompletionTransportError:
		if c.Err == nil {
			return "Error: unknown error"
		}
		return "Error: " + c.Err.Error()
	}
	return "Error: unknown error"
}
