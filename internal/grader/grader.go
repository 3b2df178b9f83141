// Package grader scores submitted answers against the authoritative answers
// of a session's questions. Evaluation is pure: the same keys and answers
// always produce the same results.
package grader

import (
	"math"
	"strconv"
	"strings"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
)

// Key is the authoritative answer of one active question.
type Key struct {
	Type questionbank.QuestionType

	// Multiple-choice: the designated option, compared exactly.
	Correct string

	// Calculation: nil when the formula could not be evaluated, in which
	// case no answer is accepted.
	CorrectAnswer *float64
	Tolerance     float64
}

// Result is the outcome for one question. UserAnswer is nil when nothing was
// submitted, a float64 for a numeric calculation answer, and the raw string
// otherwise.
type Result struct {
	Correct       bool `json:"correct"`
	UserAnswer    any  `json:"user_answer"`
	CorrectAnswer any  `json:"correct_answer"`
}

// Evaluate grades every question. answers is indexed like keys; missing
// trailing slots count as unanswered. The score is the number of correct
// results.
func Evaluate(keys []Key, answers []string) ([]Result, int) {
	results := make([]Result, len(keys))
	score := 0
	for i, k := range keys {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		results[i] = EvaluateOne(k, answer)
		if results[i].Correct {
			score++
		}
	}
	return results, score
}

// EvaluateOne grades a single answer.
func EvaluateOne(k Key, answer string) Result {
	if strings.TrimSpace(answer) == "" {
		return Result{Correct: false, UserAnswer: nil, CorrectAnswer: k.authoritative()}
	}

	if k.Type == questionbank.TypeCalculation {
		return gradeCalculation(k, answer)
	}

	return Result{
		Correct:       answer == k.Correct,
		UserAnswer:    answer,
		CorrectAnswer: k.Correct,
	}
}

func gradeCalculation(k Key, answer string) Result {
	res := Result{CorrectAnswer: k.authoritative()}

	v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		// Non-numeric input is shown back verbatim.
		res.UserAnswer = answer
		return res
	}
	if k.CorrectAnswer == nil {
		res.UserAnswer = answer
		return res
	}
	res.UserAnswer = v
	res.Correct = math.Abs(v-*k.CorrectAnswer) <= k.Tolerance
	return res
}

func (k Key) authoritative() any {
	if k.Type == questionbank.TypeCalculation {
		if k.CorrectAnswer == nil {
			return nil
		}
		return *k.CorrectAnswer
	}
	return k.Correct
}
