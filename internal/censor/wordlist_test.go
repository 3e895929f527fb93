package censor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordList_Censor(t *testing.T) {
	t.Parallel()

	l := NewWordList([]string{"shit", " Darn "}, '*')

	cases := []struct {
		in, want string
	}{
		{"a list of shit words", "a list of **** words"},
		{"SHIT, darn!", "****, ****!"},
		{"shitake mushrooms", "shitake mushrooms"},
		{"clean text", "clean text"},
		{"", ""},
		{"ünïcode darn", "ünïcode ****"},
	}
	for _, c := range cases {
		got, err := l.Censor(context.Background(), c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestWordList_CheckProfanity(t *testing.T) {
	t.Parallel()

	res, err := NewWordList([]string{"shit"}, '#').CheckProfanity(context.Background(), "Shit happens")
	require.NoError(t, err)
	require.Equal(t, 1, res.BadWordsTotal)
	require.Equal(t, BadWord{Original: "Shit", Word: "shit", Start: 0, End: 4, ReplacedLen: 4}, res.BadWords[0])
	require.Equal(t, "#### happens", res.CensoredContent)
}

func TestWordList_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWordList(nil, 0).Censor(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestResult_MaskClipsSpans(t *testing.T) {
	t.Parallel()

	r := Result{Content: "abc", BadWords: []BadWord{{Start: -1, End: 1}, {Start: 2, End: 10}}}
	require.Equal(t, "*b*", r.Mask('*'))
}
