package models

type IntakeAnswer struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// ChatRequest is the payload sent to the tutoring endpoint.
type ChatRequest struct {
	Subject string         `json:"subject"`
	Message string         `json:"message"`
	Init    bool           `json:"init"`
	Intake  []IntakeAnswer `json:"intake"`
}

type ChatReply struct {
	Answer    string   `json:"answer"`
	NextSteps []string `json:"nextSteps,omitempty"`
	Ask       []string `json:"ask,omitempty"`
}

type IntakeReply struct {
	Ask []string `json:"ask"`
}

type Alternative struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type RefusalPayload struct {
	Blocked      bool          `json:"blocked"`
	Policy       string        `json:"policy"`
	Message      string        `json:"message"`
	Alternatives []Alternative `json:"alternatives"`
}

// ChatResult carries exactly one of the three reply shapes.
type ChatResult struct {
	Reply   *ChatReply
	Intake  *IntakeReply
	Refusal *RefusalPayload
}

// Payload returns whichever reply shape is set.
func (r ChatResult) Payload() interface{} {
	switch {
	case r.Refusal != nil:
		return r.Refusal
	case r.Intake != nil:
		return r.Intake
	default:
		return r.Reply
	}
}
