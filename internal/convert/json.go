// Package convert maps domain entities to and from their JSON wire shapes.
package convert

import (
	model "github.com/and161185/qna/internal/model"
)

// --- Questions ---

// Question is the wire form of a stored question.
type Question struct {
	ID        int32    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	AccountID int32    `json:"account_id"`
}

// NewQuestion is the request body of question create and update.
type NewQuestion struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// ToQuestion converts a domain question to its wire form.
func ToQuestion(q model.Question) Question {
	return Question{
		ID:        q.ID.Int32(),
		Title:     q.Title,
		Content:   q.Content,
		Tags:      q.Tags,
		AccountID: q.AccountID.Int32(),
	}
}

// ToQuestions converts a list; the result is never nil so it encodes as [].
func ToQuestions(in []model.Question) []Question {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		out = append(out, ToQuestion(q))
	}
	return out
}

// FromNewQuestion builds an unsaved domain question.
func FromNewQuestion(in NewQuestion) model.Question {
	return model.Question{Title: in.Title, Content: in.Content, Tags: in.Tags}
}

// FromQuestion converts a wire question back to the domain, as the API client needs.
func FromQuestion(in Question) model.Question {
	return model.Question{
		ID:        model.QuestionID(in.ID),
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		AccountID: model.AccountID(in.AccountID),
	}
}

// --- Answers ---

type Answer struct {
	ID         int32  `json:"id"`
	Content    string `json:"content"`
	QuestionID int32  `json:"question_id"`
	AccountID  int32  `json:"account_id"`
}

// NewAnswer is the request body of answer create and update.
type NewAnswer struct {
	Content string `json:"content"`
}

func ToAnswer(a model.Answer) Answer {
	return Answer{
		ID:         a.ID.Int32(),
		Content:    a.Content,
		QuestionID: a.QuestionID.Int32(),
		AccountID:  a.AccountID.Int32(),
	}
}

func ToAnswers(in []model.Answer) []Answer {
	out := make([]Answer, 0, len(in))
	for _, a := range in {
		out = append(out, ToAnswer(a))
	}
	return out
}

func FromAnswer(in Answer) model.Answer {
	return model.Answer{
		ID:         model.AnswerID(in.ID),
		Content:    in.Content,
		QuestionID: model.QuestionID(in.QuestionID),
		AccountID:  model.AccountID(in.AccountID),
	}
}

// --- Accounts ---

// Credentials is the body of register and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Error is the body of every failed response.
type Error struct {
	Error string `json:"error"`
}
