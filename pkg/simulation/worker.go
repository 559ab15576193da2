package simulation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type MessageType string

const (
	MSG_RUN      MessageType = "run"
	MSG_CANCEL   MessageType = "cancel"
	MSG_PROGRESS MessageType = "progress"
	MSG_RESULT   MessageType = "result"
	MSG_ERROR    MessageType = "error"
)

// Message is the background-execution boundary envelope. A run request
// goes in; zero or more progress messages come out, then exactly one
// result or error.
type Message struct {
	Type      MessageType `json:"type"`
	Phase     string      `json:"phase,omitempty"`
	Completed int         `json:"completed,omitempty"`
	Total     int         `json:"total,omitempty"`
	Payload   *Request    `json:"payload,omitempty"`
	Result    *Result     `json:"result,omitempty"`
	Err       string      `json:"message,omitempty"`
}

// RunWorker consumes run/cancel messages from in and emits
// progress/result/error messages on out until in closes or ctx ends.
// Cancellation is cooperative: a cancel observed between trips stops the
// active run promptly; completed presets stay valid. The terminal
// message of a run is always forwarded through the worker loop itself,
// so once a client sees it the worker is ready for the next run.
func RunWorker(ctx context.Context, log *zap.Logger, in <-chan Message, out chan<- Message) {
	var (
		activeCancel context.CancelFunc
		terminal     chan Message
	)

	finishRun := func() {
		if activeCancel != nil {
			activeCancel()
			activeCancel = nil
		}
		terminal = nil
	}
	defer finishRun()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			switch msg.Type {
			case MSG_RUN:
				if terminal != nil {
					out <- Message{Type: MSG_ERROR, Err: "a run is already in progress"}
					continue
				}
				if msg.Payload == nil {
					out <- Message{Type: MSG_ERROR, Err: "run message carries no request payload"}
					continue
				}

				runCtx, cancel := context.WithCancel(ctx)
				activeCancel = cancel
				terminal = make(chan Message, 1)

				go func(req *Request, runCtx context.Context, terminalCh chan<- Message) {
					defer func() {
						// engine errors surface as a message, never a crash.
						if r := recover(); r != nil {
							log.Error("simulation panic", zap.Any("panic", r))
							terminalCh <- Message{Type: MSG_ERROR, Err: fmt.Sprintf("simulation failed: %v", r)}
						}
					}()

					sim := NewSimulator(log, req)
					sim.OnProgress(func(phase string, completed, total int) {
						// a gone client stops draining out; dropping progress
						// on cancellation keeps the run goroutine unwindable.
						select {
						case out <- Message{Type: MSG_PROGRESS, Phase: phase, Completed: completed, Total: total}:
						case <-runCtx.Done():
						}
					})
					result := sim.Run(runCtx)
					terminalCh <- Message{Type: MSG_RESULT, Result: result}
				}(msg.Payload, runCtx, terminal)

			case MSG_CANCEL:
				if activeCancel != nil {
					log.Info("cancellation requested")
					activeCancel()
				}
			}
		case msg := <-chanOrNil(terminal):
			out <- msg
			finishRun()
		}
	}
}

func chanOrNil(ch chan Message) <-chan Message {
	if ch == nil {
		return nil
	}
	return ch
}
