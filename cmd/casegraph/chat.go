package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/conversation"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/observability"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/tui"
)

var (
	chatShowQueries bool
	chatTUI         bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an investigation conversation",
	Long: `Read questions from standard input, one per line, and answer each in turn.

Follow-up questions may refer to entities from earlier answers ("their
members", "where did he operate?"). Type "new investigation" to clear the
context, or "exit" to quit.

When metrics are enabled with the prometheus provider, they are served on
metrics.listen_address for the lifetime of the conversation.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatShowQueries, "show-queries", false, "Print the executed queries after each answer")
	chatCmd.Flags().BoolVar(&chatTUI, "tui", false, "Use the full-screen interface (requires a terminal)")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cliConfig, cmd.ErrOrStderr(), appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.Start(ctx); err != nil {
		a.logger.Warn("initial name index load failed", "error", err)
	}

	if handler := a.metrics.Handler(); handler != nil {
		go func() {
			if err := observability.ServeMetrics(ctx, a.cfg.Metrics.ListenAddress, handler, a.logger); err != nil {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if chatTUI {
		if !interactive {
			return internal.NewCLIError(internal.ExitError, "--tui requires an interactive terminal")
		}
		return runChatTUI(ctx, a)
	}
	return chatLoop(ctx, a.engine, a.logger, cmd.InOrStdin(), cmd.OutOrStdout(), interactive)
}

func runChatTUI(ctx context.Context, a *app) error {
	model := tui.New(ctx, tui.Config{
		Asker:  a.engine,
		Render: func(resp *engine.Response) string {
			var buf bytes.Buffer
			if err := renderResponse(&buf, internal.FormatText, resp, chatShowQueries); err != nil {
				return resp.Answer
			}
			return strings.TrimRight(buf.String(), "\n")
		},
		Logger: a.logger,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// chatLoop answers questions read from in until EOF, "exit" or ctx ends.
// Turn errors are reported and the conversation continues.
func chatLoop(ctx context.Context, eng *engine.Engine, logger *slog.Logger, in io.Reader, out io.Writer, interactive bool) error {
	session := conversation.NewSession()
	theme := internal.NewTheme(out)
	format := globalFlags.Format()

	traced := observability.NewTracedLogger(logger.Handler(), session.ID, "chat")

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, theme.Title.Render("casegraph> "))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := eng.Ask(ctx, session, question)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			traced.Warn(ctx, "turn failed", "error", err)
			fmt.Fprintln(out, theme.Danger.Render(graphrag.UserMessage(err)))
			continue
		}

		traced.Debug(ctx, "turn answered",
			"turn_id", resp.TurnID,
			"status", string(resp.Status),
			"answer_source", string(resp.AnswerSource),
		)
		if err := renderResponse(out, format, resp, chatShowQueries); err != nil {
			return err
		}
	}
}
