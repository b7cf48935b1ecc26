// Package repl runs the interactive question loop: one query per input
// line until the exit sentinel.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

const exitSentinel = "exit"

// fallbackMessage is what the user sees when the backend produced nothing;
// it is never an empty string.
const fallbackMessage = "no response produced"

type Loop struct {
	answerUC ports.AnswerService
	in       io.Reader
	out      io.Writer
	topK     int
}

func New(answerUC ports.AnswerService, in io.Reader, out io.Writer, topK int) *Loop {
	return &Loop{
		answerUC: answerUC,
		in:       in,
		out:      out,
		topK:     topK,
	}
}

// Run consumes input lines until EOF or the exit sentinel. Generation
// failures print the fallback message and the loop moves on to the next
// query; anything else is an implementation defect and stops the loop.
func (l *Loop) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, exitSentinel) {
			return nil
		}

		answer, err := l.answerUC.Answer(ctx, line, l.topK, nil)
		if err != nil {
			if domain.IsKind(err, domain.ErrNoGeneration) || domain.IsKind(err, domain.ErrTemporary) {
				fmt.Fprintln(l.out, fallbackMessage)
				continue
			}
			return err
		}
		fmt.Fprintln(l.out, answer.Response)
	}
	return scanner.Err()
}
