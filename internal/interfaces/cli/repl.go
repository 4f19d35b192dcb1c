// Package cli is the terminal front end of the assistant: a line-based
// chat loop with markdown rendering and text charts.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ministock/backend/internal/application/assistant"
	"github.com/ministock/backend/internal/infrastructure/telemetry"
)

// Assistant is the conversation the REPL drives.
type Assistant interface {
	HandleUtterance(ctx context.Context, text string) assistant.Response
	Notifications() []string
	Reset()
}

// StatsSource reports turn statistics for the /stats command.
type StatsSource interface {
	Snapshot(ctx context.Context) (telemetry.TurnStats, error)
}

// REPL commands.
const (
	cmdExit  = "/salir"
	cmdQuit  = "/exit"
	cmdReset = "/reset"
	cmdStats = "/stats"
	cmdHelp  = "/ayuda"
)

const (
	prompt       = "tú › "
	thinkingText = "Stocky está pensando…"
)

const helpText = `Comandos:
  /ayuda   muestra esta ayuda
  /reset   olvida la conversación
  /stats   estadísticas de la sesión
  /salir   termina
`

// REPL reads utterances line by line and prints the assistant's replies.
type REPL struct {
	in        io.Reader
	out       io.Writer
	assistant Assistant
	renderer  *Renderer
	stats     StatsSource
	delay     time.Duration
	logger    *zap.Logger
}

// Option configures a REPL.
type Option func(*REPL)

// WithThinkingDelay sets the pause shown before each reply.
func WithThinkingDelay(d time.Duration) Option {
	return func(r *REPL) { r.delay = d }
}

// WithStats enables the /stats command.
func WithStats(s StatsSource) Option {
	return func(r *REPL) { r.stats = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *REPL) { r.logger = l }
}

// NewREPL creates a REPL over in and out.
func NewREPL(in io.Reader, out io.Writer, a Assistant, renderer *Renderer, opts ...Option) *REPL {
	r := &REPL{
		in:        in,
		out:       out,
		assistant: a,
		renderer:  renderer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints the welcome message and answers lines until the input ends,
// an exit command is read or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	lines, errs, stop := r.readLines()
	defer stop()

	r.write(r.renderer.Markdown(assistant.WelcomeText()))
	r.flushNotifications()

	for {
		r.write(prompt)
		select {
		case <-ctx.Done():
			r.write("\n")
			return nil
		case err := <-errs:
			return fmt.Errorf("failed to read input: %w", err)
		case line, ok := <-lines:
			if !ok {
				// the reader queues its error before closing lines
				select {
				case err := <-errs:
					return fmt.Errorf("failed to read input: %w", err)
				default:
				}
				r.write("\n")
				return nil
			}
			if done := r.handleLine(ctx, line); done {
				return nil
			}
		}
	}
}

func (r *REPL) handleLine(ctx context.Context, line string) bool {
	text := strings.TrimSpace(line)
	switch strings.ToLower(text) {
	case cmdExit, cmdQuit:
		r.write("👋 ¡Hasta pronto!\n")
		return true
	case cmdReset:
		r.assistant.Reset()
		r.write("🧹 Conversación reiniciada.\n")
		return false
	case cmdStats:
		r.printStats(ctx)
		return false
	case cmdHelp:
		r.write(helpText)
		return false
	}

	if err := r.think(ctx); err != nil {
		return true
	}
	resp := r.assistant.HandleUtterance(ctx, text)
	r.write(r.renderer.Response(resp))
	r.flushNotifications()
	return false
}

// Ask answers a single utterance without the welcome message or prompt.
func (r *REPL) Ask(ctx context.Context, text string) error {
	if err := r.think(ctx); err != nil {
		return err
	}
	r.write(r.renderer.Response(r.assistant.HandleUtterance(ctx, text)))
	r.flushNotifications()
	return nil
}

func (r *REPL) think(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	r.write(thinkingText + "\n")
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *REPL) printStats(ctx context.Context) {
	if r.stats == nil {
		r.write("Estadísticas no disponibles.\n")
		return
	}
	stats, err := r.stats.Snapshot(ctx)
	if err != nil {
		r.logger.Warn("stats snapshot failed", zap.Error(err))
		r.write("Estadísticas no disponibles.\n")
		return
	}
	r.write(FormatStats(stats))
}

// FormatStats renders turn statistics as plain text.
func FormatStats(s telemetry.TurnStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 Preguntas respondidas: %d\n", s.Turns)
	fmt.Fprintf(&b, "📊 Respuestas con gráfica: %d\n", s.Charts)
	fmt.Fprintf(&b, "⏱️ Tiempo medio de respuesta: %s\n", s.MeanLatency.Round(time.Microsecond))
	for _, ic := range s.ByIntent {
		fmt.Fprintf(&b, "  • %s: %d\n", ic.Intent, ic.Turns)
	}
	return b.String()
}

func (r *REPL) flushNotifications() {
	for _, n := range r.assistant.Notifications() {
		r.write("🔔 " + n + "\n")
	}
}

func (r *REPL) write(s string) {
	if _, err := io.WriteString(r.out, s); err != nil {
		r.logger.Debug("write failed", zap.Error(err))
	}
}

// readLines scans the input on its own goroutine so Run can also watch
// ctx. stop releases the goroutine once its current read returns.
func (r *REPL) readLines() (<-chan string, <-chan error, func()) {
	lines := make(chan string)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	return lines, errs, func() { close(done) }
}
