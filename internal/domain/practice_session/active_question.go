package practicesession

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/formula"
	"github.com/fanlar-test/backend/internal/grader"
)

// ActiveQuestion is a question as it appears in one session. It is created at
// session start and never changes afterwards.
type ActiveQuestion struct {
	ID     questionbank.ID
	Type   questionbank.QuestionType
	Prompt string

	// Multiple-choice: a session-scoped shuffled copy of the template options.
	Options []string
	Correct string

	// Calculation: the drawn variables and the evaluated answer. CorrectAnswer
	// is nil and Err is set when the formula could not be evaluated.
	Variables     map[string]int
	CorrectAnswer *float64
	Tolerance     float64
	Err           error
}

// Answerable reports whether a correct answer exists.
func (q ActiveQuestion) Answerable() bool {
	return q.Type != questionbank.TypeCalculation || q.CorrectAnswer != nil
}

// Key returns the grading key of the question.
func (q ActiveQuestion) Key() grader.Key {
	return grader.Key{
		Type:          q.Type,
		Correct:       q.Correct,
		CorrectAnswer: q.CorrectAnswer,
		Tolerance:     q.Tolerance,
	}
}

// Materialize turns a template into an active question.
func Materialize(t questionbank.QuestionTemplate, rng Rand) ActiveQuestion {
	if t.Kind() == questionbank.TypeCalculation {
		return GenerateCalculation(t, rng)
	}

	opts := make([]string, len(t.Options))
	copy(opts, t.Options)
	rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})

	return ActiveQuestion{
		ID:      t.ID,
		Type:    questionbank.TypeMultipleChoice,
		Prompt:  t.Prompt,
		Options: opts,
		Correct: t.Correct,
	}
}

// GenerateCalculation draws a uniform integer in [min, max] for every
// variable, renders the prompt and evaluates the formula. Evaluation failure
// leaves the question without a correct answer.
func GenerateCalculation(t questionbank.QuestionTemplate, rng Rand) ActiveQuestion {
	q := ActiveQuestion{
		ID:        t.ID,
		Type:      questionbank.TypeCalculation,
		Tolerance: t.ToleranceOrDefault(),
		Variables: make(map[string]int, len(t.Variables)),
	}

	// Sorted so a seeded Rand reproduces the same draw.
	names := make([]string, 0, len(t.Variables))
	for name := range t.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := t.Variables[name]
		if r.Max < r.Min {
			q.Prompt = t.PromptTemplate
			q.Err = fmt.Errorf("variable %s: empty range [%d, %d]", name, r.Min, r.Max)
			return q
		}
		q.Variables[name] = r.Min + rng.Intn(r.Max-r.Min+1)
	}

	q.Prompt = renderPrompt(t.PromptTemplate, q.Variables)

	answer, err := formula.Evaluate(t.Formula, q.Variables, rng)
	if err != nil {
		q.Err = err
		return q
	}
	q.CorrectAnswer = &answer
	return q
}

// renderPrompt substitutes {name} placeholders; {{ and }} are literal braces.
func renderPrompt(template string, vars map[string]int) string {
	pairs := []string{"{{", "{", "}}", "}"}
	for name, v := range vars {
		pairs = append(pairs, "{"+name+"}", strconv.Itoa(v))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
