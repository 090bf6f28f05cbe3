package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"FlowCS/dialogue"
	"FlowCS/impl/core"
	"FlowCS/internal/lib/sl"
)

// Run drives one interactive session over a line-based reader/writer
// pair until the flow terminates, the user types an exit phrase, or the
// input closes.
func Run(ctx context.Context, interp *dialogue.Interpreter, in io.Reader, out io.Writer, log *slog.Logger) error {
	logger := log.With(sl.Module("console"))

	if err := interp.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping session: %w", err)
	}

	scanner := bufio.NewScanner(in)
	for interp.Context().Active {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		if core.IsTerminationToken(text) {
			interp.Deactivate()
			fmt.Fprintln(out, "Session closed.")
			break
		}

		if err := interp.ProcessTurn(ctx, text); err != nil {
			var fault *dialogue.TurnFault
			if errors.As(err, &fault) {
				logger.Error("turn fault", slog.String("stage", fault.Stage), sl.Err(fault.Err))
				fmt.Fprintln(out, "Something went wrong, please try again.")
				continue
			}
			return err
		}
	}

	return scanner.Err()
}

// Printer is a Messenger writing prompts to the console.
func Printer(out io.Writer) dialogue.MessengerFunc {
	return func(_ context.Context, text string) error {
		_, err := fmt.Fprintf(out, "bot: %s\n", text)
		return err
	}
}
