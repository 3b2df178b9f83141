package questionbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeCalculation    QuestionType = "calculation"
)

// DefaultTolerance applies to calculation templates that omit "tolerance".
const DefaultTolerance = 0.01

// ID accepts both JSON numbers and strings; banks in the wild use either.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Range is an inclusive integer interval, written as [min, max] in the bank.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("variable range must have 2 bounds, got %d", len(pair))
		}
		r.Min, r.Max = pair[0], pair[1]
		return nil
	}
	var obj struct {
		Min int `json:"min"`
		Max int `json:"max"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("variable range must be [min, max]: %w", err)
	}
	r.Min, r.Max = obj.Min, obj.Max
	return nil
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int{r.Min, r.Max})
}

// QuestionTemplate is one static entry of a bank. Multiple-choice entries use
// Prompt/Options/Correct; calculation entries use PromptTemplate/Formula/
// Variables/Tolerance. Field names follow the bank file format.
type QuestionTemplate struct {
	ID   ID           `json:"id"`
	Type QuestionType `json:"type,omitempty"`

	Prompt  string   `json:"savol,omitempty"`
	Options []string `json:"variantlar,omitempty"`
	Correct string   `json:"javob,omitempty"`

	PromptTemplate string           `json:"savol_shabloni,omitempty"`
	Formula        string           `json:"formula,omitempty"`
	Variables      map[string]Range `json:"variables,omitempty"`
	Tolerance      *float64         `json:"tolerance,omitempty"`
}

// Kind returns the effective type. Entries without a recognised type are
// multiple-choice.
func (q QuestionTemplate) Kind() QuestionType {
	if q.Type == TypeCalculation {
		return TypeCalculation
	}
	return TypeMultipleChoice
}

// ToleranceOrDefault returns the accepted numeric deviation.
func (q QuestionTemplate) ToleranceOrDefault() float64 {
	if q.Tolerance == nil {
		return DefaultTolerance
	}
	return *q.Tolerance
}

// QuestionBank is the ordered collection of templates for one subject.
type QuestionBank struct {
	Subject   string
	Questions []QuestionTemplate
}

func New(subject string) *QuestionBank {
	return &QuestionBank{
		Subject:   subject,
		Questions: []QuestionTemplate{},
	}
}

// AddMultipleChoice appends a multiple-choice template with a sequential id.
func (qb *QuestionBank) AddMultipleChoice(prompt string, options []string, correct string) error {
	if prompt == "" {
		return errors.New("question prompt cannot be empty")
	}
	if len(options) == 0 {
		return errors.New("multiple-choice question needs options")
	}

	qb.Questions = append(qb.Questions, QuestionTemplate{
		ID:      qb.nextID(),
		Type:    TypeMultipleChoice,
		Prompt:  prompt,
		Options: append([]string(nil), options...),
		Correct: correct,
	})
	return nil
}

// AddCalculation appends a calculation template. A nil tolerance means
// DefaultTolerance.
func (qb *QuestionBank) AddCalculation(promptTemplate, formula string, variables map[string]Range, tolerance *float64) error {
	if promptTemplate == "" {
		return errors.New("question prompt template cannot be empty")
	}
	if formula == "" {
		return errors.New("calculation question needs a formula")
	}

	vars := make(map[string]Range, len(variables))
	for k, v := range variables {
		vars[k] = v
	}
	qb.Questions = append(qb.Questions, QuestionTemplate{
		ID:             qb.nextID(),
		Type:           TypeCalculation,
		PromptTemplate: promptTemplate,
		Formula:        formula,
		Variables:      vars,
		Tolerance:      tolerance,
	})
	return nil
}

func (qb *QuestionBank) nextID() ID {
	return ID(strconv.Itoa(len(qb.Questions) + 1))
}
