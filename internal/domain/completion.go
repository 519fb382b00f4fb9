package domain

// errorPrefix marks a failed collaborator call in rendered output.
const errorPrefix = "AI processing error: "

// Completion is the outcome of a call to the text-generation collaborator:
// either generated text or the reason the call failed.
type Completion struct {
	Text    string
	Failure string
}

func CompletionOK(text string) *Completion {
	return &Completion{Text: text}
}

func CompletionFailed(err error) *Completion {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Completion{Failure: msg}
}

func (c *Completion) Failed() bool {
	return c != nil && c.Failure != ""
}

// Render converts the completion to the in-band string clients see.
func (c *Completion) Render() string {
	if c == nil {
		return ""
	}
	if c.Failure != "" {
		return errorPrefix + c.Failure
	}
	return c.Text
}
