package contact

type Status int

const (
	StatusIdle Status = iota
	StatusSending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSending:
		return "sending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Banner texts shown under the form.
const (
	SuccessBanner = "Message sent successfully! I'll get back to you soon."
	ErrorBanner   = "Oops! Something went wrong. Please try again later."
)

// Banner returns the message shown for s, empty when nothing is shown.
func (s Status) Banner() string {
	switch s {
	case StatusSuccess:
		return SuccessBanner
	case StatusError:
		return ErrorBanner
	default:
		return ""
	}
}
