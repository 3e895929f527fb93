package censor

import (
	"context"
	"strings"
	"unicode"
)

// WordList censors text against a fixed, case-insensitive set of words
// without any network calls.
type WordList struct {
	words map[string]struct{}
	char  rune
}

var _ Censorer = (*WordList)(nil)

func NewWordList(words []string, censorChar rune) *WordList {
	if censorChar == 0 {
		censorChar = '*'
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &WordList{words: set, char: censorChar}
}

// CheckProfanity scans text word by word.
func (l *WordList) CheckProfanity(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Content: text}
	runes := []rune(text)
	for start := 0; start < len(runes); {
		if !isWordRune(runes[start]) {
			start++
			continue
		}
		end := start
		for end < len(runes) && isWordRune(runes[end]) {
			end++
		}
		original := string(runes[start:end])
		word := strings.ToLower(original)
		if _, bad := l.words[word]; bad {
			res.BadWords = append(res.BadWords, BadWord{
				Original:    original,
				Word:        word,
				Start:       start,
				End:         end,
				ReplacedLen: end - start,
			})
		}
		start = end
	}
	res.BadWordsTotal = len(res.BadWords)
	res.CensoredContent = res.Mask(l.char)
	return res, nil
}

func (l *WordList) Censor(ctx context.Context, text string) (string, error) {
	res, err := l.CheckProfanity(ctx, text)
	if err != nil {
		return "", err
	}
	return res.CensoredContent, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
