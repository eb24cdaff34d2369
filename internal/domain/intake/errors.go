package intake

import "errors"

// ErrNeedsClarification matches every *ClarificationError through errors.Is.
var ErrNeedsClarification = errors.New("needs clarification")

// Messages returned to callers.
const (
	MsgAmbiguousEntities = "Ambiguous date/time or department"
	MsgUnparsableDate    = "Could not parse date"
	MsgUnparsableTime    = "Could not parse time"
	MsgNoInput           = "No text or image provided"
)

// ClarificationError signals that the input lacks enough information to
// proceed. Callers are expected to re-prompt the user.
type ClarificationError struct {
	Message string
}

func (e *ClarificationError) Error() string {
	return e.Message
}

func (e *ClarificationError) Is(target error) bool {
	return target == ErrNeedsClarification
}

func needsClarification(msg string) error {
	return &ClarificationError{Message: msg}
}

// IsClarification reports whether err is a clarification-needed outcome and
// returns its message.
func IsClarification(err error) (string, bool) {
	var ce *ClarificationError
	if errors.As(err, &ce) {
		return ce.Message, true
	}
	return "", false
}
