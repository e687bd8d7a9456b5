// Package terminal is a line-oriented presentation layer for a single quiz run.
// It renders engine state and forwards the player's choices; it owns no quiz rules.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/domain"
)

// Session drives one engine from an input stream.
type Session struct {
	engine *app.Engine
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

func NewSession(engine *app.Engine, in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	return &Session{
		engine: engine,
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Run renders the first question and handles commands until quit, end of input or ctx is done.
// A canceled ctx returns ctx.Err() even while the prompt is waiting for input.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderHeader(s.out, s.engine)
	renderQuestion(s.out, s.engine)
	fmt.Fprintln(s.out, helpText)

	lines, readErr := s.readLines(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			if quit := s.handle(strings.TrimSpace(line)); quit {
				fmt.Fprintln(s.out, "Bye! Stay safe on the road.")
				return nil
			}
		}
	}
}

// readLines scans the input on its own goroutine so a blocked read never holds up cancellation.
// The read error is sent before lines is closed.
func (s *Session) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

// handle executes one input line and reports whether the player asked to quit.
func (s *Session) handle(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	case "", "n", "next":
		s.next()
	case "r", "restart":
		s.engine.Restart()
		fmt.Fprintln(s.out, "Starting over. All achievements are locked again.")
		renderHeader(s.out, s.engine)
		renderQuestion(s.out, s.engine)
	case "s", "stats":
		renderStats(s.out, app.Project(s.engine))
	case "t", "achievements":
		renderAchievements(s.out, s.engine.State().Achievements)
	case "h", "help":
		fmt.Fprintln(s.out, helpText)
	default:
		choice, ok := parseChoice(line, len(s.engine.Current().Options))
		if !ok {
			fmt.Fprintf(s.out, "Unknown command %q. %s\n", line, helpText)
			return false
		}
		s.answer(choice)
	}
	return false
}

func (s *Session) answer(choice int) {
	result, err := s.engine.SubmitAnswer(choice)
	if err != nil {
		s.reject(err)
		return
	}
	s.logger.Debug("answer submitted",
		zap.Int("question", result.QuestionID),
		zap.Int("choice", result.Choice),
		zap.Bool("correct", result.Correct),
	)

	renderQuestion(s.out, s.engine)
	renderResult(s.out, s.engine)
	renderUnlocked(s.out, s.engine.State().Achievements, result.Unlocked)

	if s.engine.IsComplete() {
		renderSummary(s.out, app.Project(s.engine))
		return
	}
	fmt.Fprintln(s.out, "Press Enter for the next question.")
}

func (s *Session) next() {
	if err := s.engine.Next(); err != nil {
		s.reject(err)
		return
	}
	if s.engine.IsComplete() {
		renderSummary(s.out, app.Project(s.engine))
		return
	}
	renderHeader(s.out, s.engine)
	renderQuestion(s.out, s.engine)
}

func (s *Session) reject(err error) {
	s.logger.Debug("action rejected", zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered):
		fmt.Fprintln(s.out, "You already answered this question. Press Enter to continue.")
	case errors.Is(err, domain.ErrNotAnswered):
		fmt.Fprintln(s.out, "Pick an answer first.")
	case errors.Is(err, domain.ErrChoiceOutOfRange):
		fmt.Fprintln(s.out, "There is no such option.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// parseChoice accepts an option letter (a, B, ...) or a 1-based number.
// Letters are limited to the first options letters so they never shadow a command.
// Numbers are passed through unchecked and the engine rejects those out of range.
func parseChoice(line string, options int) (int, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		return n - 1, true
	}
	if len(line) == 1 {
		c := line[0] | 0x20 // lower-case ASCII letters
		if c >= 'a' && int(c-'a') < options {
			return int(c - 'a'), true
		}
	}
	return 0, false
}
