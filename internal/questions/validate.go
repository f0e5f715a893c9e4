package questions

import (
	"encoding/json"
	"fmt"

	"imagequest/internal/models"
)

// ValidationError describes why an uploaded question set was rejected.
// Message is safe to return to the client verbatim.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...interface{}) error {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ParseAndValidate decodes an uploaded question-set payload and checks it
// strictly before anything is written to disk: the payload must be a JSON
// array of objects, each carrying id, question, options and answer, with
// exactly four options and an answer that is one of them. Errors name the
// offending question by its 1-based position.
func ParseAndValidate(payload []byte) ([]models.Question, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, invalidf("questions must be a JSON array of objects")
	}

	qs := make([]models.Question, 0, len(raw))
	for i, obj := range raw {
		pos := i + 1
		for _, field := range []string{"id", "question", "options", "answer"} {
			if _, ok := obj[field]; !ok {
				return nil, invalidf("question %d missing required field: %s", pos, field)
			}
		}

		var q models.Question
		if err := json.Unmarshal(obj["question"], &q.Question); err != nil {
			return nil, invalidf("question %d: question must be a string", pos)
		}
		if err := json.Unmarshal(obj["options"], &q.Options); err != nil {
			return nil, invalidf("question %d: options must be an array of strings", pos)
		}
		if err := json.Unmarshal(obj["answer"], &q.Answer); err != nil {
			return nil, invalidf("question %d: answer must be a string", pos)
		}

		if len(q.Options) != models.OptionCount {
			return nil, invalidf("question %d: must have exactly %d options", pos, models.OptionCount)
		}

		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return nil, invalidf("question %d: answer %q must be one of the options", pos, q.Answer)
		}

		q.ID = pos
		qs = append(qs, q)
	}

	return qs, nil
}
