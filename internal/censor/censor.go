// Package censor replaces profanity in user-submitted text, either through the
// remote bad-words API or through a local word list.
package censor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Censorer checks text for profanity and returns the censored variant.
type Censorer interface {
	// CheckProfanity returns the full detection result for text.
	CheckProfanity(ctx context.Context, text string) (Result, error)
	// Censor returns text with every detected term masked.
	Censor(ctx context.Context, text string) (string, error)
}

// BadWord is a detected term. Start and End are character (rune) offsets into Result.Content.
type BadWord struct {
	Original    string `json:"original"`
	Word        string `json:"word"`
	Deviations  int64  `json:"deviations"`
	Info        int64  `json:"info"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	ReplacedLen int    `json:"replacedLen"`
}

// Result is the outcome of a profanity check. It is consumed immediately and never persisted.
type Result struct {
	Content         string    `json:"content"`
	BadWordsTotal   int       `json:"bad_words_total"`
	BadWords        []BadWord `json:"bad_words_list"`
	CensoredContent string    `json:"censored_content"`
}

// Mask rebuilds the censored text from the detected spans: each [Start, End)
// range of Content is replaced by End-Start copies of char. Out of range spans are clipped.
func (r Result) Mask(char rune) string {
	runes := []rune(r.Content)
	for _, w := range r.BadWords {
		start, end := max(w.Start, 0), min(w.End, len(runes))
		for i := start; i < end; i++ {
			runes[i] = char
		}
	}
	return string(runes)
}

// Mode values accepted by New.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config selects and parameterises a Censorer.
type Config struct {
	Mode       string
	CensorChar rune
	Words      []string // local mode only
	Remote     Options  // remote mode only
}

// New builds the Censorer described by cfg.
func New(cfg Config, log *zap.Logger) (Censorer, error) {
	switch strings.ToLower(cfg.Mode) {
	case ModeRemote, "":
		opts := cfg.Remote
		if opts.CensorChar == 0 {
			opts.CensorChar = cfg.CensorChar
		}
		if opts.Logger == nil {
			opts.Logger = log
		}
		return NewClient(opts)
	case ModeLocal:
		return NewWordList(cfg.Words, cfg.CensorChar), nil
	default:
		return nil, fmt.Errorf("unknown censor mode: %s", cfg.Mode)
	}
}
