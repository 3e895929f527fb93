// Command qna is a command-line client for the question and answer API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/qna/internal/client"
	"github.com/and161185/qna/internal/convert"
	"github.com/and161185/qna/internal/model"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "qna",
	Short:        "Question and answer API client",
	Version:      version + " (" + buildDate + ")",
	SilenceUsage: true,
}

// newClient builds an API client; auth adds the saved token.
func newClient(cmd *cobra.Command, auth bool) (*client.Client, context.Context, context.CancelFunc, error) {
	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	c, err := client.New(server, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	if auth {
		tok, err := loadToken()
		if err != nil {
			return nil, nil, nil, err
		}
		c = c.WithToken(tok)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return c, ctx, cancel, nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// readText returns s, or stdin when s is "-".
func readText(in io.Reader, s string) (string, error) {
	if s != "-" {
		return s, nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func pageFlags(cmd *cobra.Command) model.Pagination {
	offset, _ := cmd.Flags().GetInt64("offset")
	p := model.Pagination{Offset: offset}
	if cmd.Flags().Changed("limit") {
		limit, _ := cmd.Flags().GetInt64("limit")
		p.Limit = &limit
	}
	return p
}

// ---- accounts ----

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		c, ctx, cancel, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		defer cancel()
		if err := c.Register(ctx, email, password); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account created")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		c, ctx, cancel, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		defer cancel()
		tok, err := c.Login(ctx, email, password)
		if err != nil {
			return err
		}
		exp := tokenExpiry(tok)
		if err := saveToken(tok, exp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok (valid until %s)\n", exp.Local().Format(time.RFC3339))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeToken()
	},
}

// ---- questions ----

var questionsCmd = &cobra.Command{
	Use:     "questions",
	Aliases: []string{"q"},
	Short:   "Browse and manage questions",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		defer cancel()
		qs, err := c.Questions(ctx, pageFlags(cmd))
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToQuestions(qs))
		return nil
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseID[model.QuestionKind](args[0])
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		defer cancel()
		q, err := c.Question(ctx, id)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToQuestion(q))
		return nil
	},
}

func questionFlags(cmd *cobra.Command) (model.Question, error) {
	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	content, err := readText(cmd.InOrStdin(), content)
	if err != nil {
		return model.Question{}, err
	}
	return model.Question{Title: title, Content: content, Tags: tags}, nil
}

var questionsAskCmd = &cobra.Command{
	Use:   "ask",
	Short: "Post a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := questionFlags(cmd)
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		q, err = c.AddQuestion(ctx, q)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToQuestion(q))
		return nil
	},
}

var questionsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Replace a question you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseID[model.QuestionKind](args[0])
		if err != nil {
			return err
		}
		q, err := questionFlags(cmd)
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		q, err = c.UpdateQuestion(ctx, id, q)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToQuestion(q))
		return nil
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a question you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseID[model.QuestionKind](args[0])
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		if err := c.DeleteQuestion(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Question deleted")
		return nil
	},
}

// ---- answers ----

var answersCmd = &cobra.Command{
	Use:     "answers",
	Aliases: []string{"a"},
	Short:   "Browse and manage answers",
}

var answersListCmd = &cobra.Command{
	Use:   "list QUESTION_ID",
	Short: "List answers to a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qid, err := model.ParseID[model.QuestionKind](args[0])
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, false)
		if err != nil {
			return err
		}
		defer cancel()
		as, err := c.Answers(ctx, qid, pageFlags(cmd))
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToAnswers(as))
		return nil
	},
}

var answersAddCmd = &cobra.Command{
	Use:   "add QUESTION_ID",
	Short: "Answer a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qid, err := model.ParseID[model.QuestionKind](args[0])
		if err != nil {
			return err
		}
		content, _ := cmd.Flags().GetString("content")
		if content, err = readText(cmd.InOrStdin(), content); err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		a, err := c.AddAnswer(ctx, qid, content)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToAnswer(a))
		return nil
	},
}

var answersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Replace an answer you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseID[model.AnswerKind](args[0])
		if err != nil {
			return err
		}
		content, _ := cmd.Flags().GetString("content")
		if content, err = readText(cmd.InOrStdin(), content); err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		a, err := c.UpdateAnswer(ctx, id, content)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), convert.ToAnswer(a))
		return nil
	},
}

var answersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an answer you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseID[model.AnswerKind](args[0])
		if err != nil {
			return err
		}
		c, ctx, cancel, err := newClient(cmd, true)
		if err != nil {
			return err
		}
		defer cancel()
		if err := c.DeleteAnswer(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Answer deleted")
		return nil
	},
}

func init() {
	server := os.Getenv("QNA_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().String("server", server, "API base URL ($QNA_SERVER)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout")

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringP("email", "e", "", "account email")
		c.Flags().StringP("password", "p", "", "account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logoutCmd)

	for _, c := range []*cobra.Command{questionsListCmd, answersListCmd} {
		c.Flags().Int64("offset", 0, "skip this many items")
		c.Flags().Int64("limit", 0, "return at most this many items (all when unset)")
	}
	for _, c := range []*cobra.Command{questionsAskCmd, questionsEditCmd} {
		c.Flags().StringP("title", "t", "", "question title")
		c.Flags().StringP("content", "b", "", "question body ('-' reads stdin)")
		c.Flags().StringSlice("tag", nil, "tag (repeatable)")
		_ = c.MarkFlagRequired("title")
		_ = c.MarkFlagRequired("content")
	}
	for _, c := range []*cobra.Command{answersAddCmd, answersEditCmd} {
		c.Flags().StringP("content", "b", "", "answer body ('-' reads stdin)")
		_ = c.MarkFlagRequired("content")
	}

	questionsCmd.AddCommand(questionsListCmd, questionsShowCmd, questionsAskCmd, questionsEditCmd, questionsDeleteCmd)
	answersCmd.AddCommand(answersListCmd, answersAddCmd, answersEditCmd, answersDeleteCmd)
	rootCmd.AddCommand(questionsCmd, answersCmd)
}
