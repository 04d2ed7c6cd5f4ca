package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/ops"
	"github.com/quillan/vellum/internal/point"
	"github.com/quillan/vellum/internal/verrors"
	"github.com/quillan/vellum/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "vellum",
		Usage:   "Tamper-evident valence ledger",
		Version: Version,
		Commands: []*cli.Command{
			scoreCmd(cfg),
			runCmd(cfg),
			serveCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// scoreCmd creates the score command.
func scoreCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score text into an interaction point (reads text from stdin)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "Strip markdown syntax before keyword counting"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(verrors.NewInvalidRequest("text must be piped via stdin"))
			}

			text, err := readStdin()
			if err != nil {
				return outputError(verrors.NewInternal(err))
			}

			output, err := ops.Score(cfg, ops.ScoreInput{
				Text:     text,
				Markdown: c.Bool("markdown"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// runCmd creates the run command.
func runCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a scripted session: score each stdin line against a fresh ledger, then verify the chain",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "Strip markdown syntax before keyword counting"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Append every line regardless of the logging thresholds"},
			&cli.BoolFlag{Name: "tamper", Usage: "Mutate an entry after the session and verify again, demonstrating detection"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(verrors.NewInvalidRequest("event lines must be piped via stdin"))
			}

			raw, err := readStdin()
			if err != nil {
				return outputError(verrors.NewInternal(err))
			}

			lines := splitLines(raw)
			if len(lines) == 0 {
				return outputError(verrors.NewInvalidRequest("no event lines provided"))
			}

			report, err := runSession(cfg, lines, c.Bool("markdown"), c.Bool("all"), c.Bool("tamper"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(report)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI with a session-scoped ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8484, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			led, err := ledger.New()
			if err != nil {
				return outputError(verrors.NewInternal(err))
			}

			srv := web.NewServer(led, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Session report types

// runLine pairs an input line with its scoring and logging outcome.
type runLine struct {
	Text string `json:"text"`
	*ops.RecordOutput
}

// tamperReport records a deliberate in-memory mutation and its detection.
type tamperReport struct {
	Index  int               `json:"index"`
	Field  string            `json:"field"`
	Verify *ops.VerifyOutput `json:"verify"`
}

// runReport is the full JSON output of a scripted session.
type runReport struct {
	Lines  []runLine         `json:"lines"`
	Verify *ops.VerifyOutput `json:"verify"`
	Tamper *tamperReport     `json:"tamper,omitempty"`
	Length int               `json:"length"`
}

// runSession scores each line against a fresh ledger, verifies the chain, and
// optionally tampers with an entry to show the violation being caught.
func runSession(cfg *config.Config, lines []string, markdown, forceAll, tamper bool) (*runReport, error) {
	led, err := ledger.New()
	if err != nil {
		return nil, verrors.NewInternal(err)
	}

	report := &runReport{Lines: make([]runLine, 0, len(lines))}

	for _, line := range lines {
		result, err := ops.Record(led, cfg, ops.RecordInput{
			Text:     line,
			Markdown: markdown,
			Force:    forceAll,
		})
		if err != nil {
			return nil, err
		}
		report.Lines = append(report.Lines, runLine{Text: line, RecordOutput: result})
	}

	report.Verify = ops.VerifyChain(led)
	report.Length = led.Len()

	if tamper {
		if led.Len() < 2 {
			return nil, verrors.NewInvalidRequest("tamper demonstration needs at least one logged entry")
		}
		// Flip the first real entry's valence in place. The stored hash no
		// longer matches the entry content, which Verify must report.
		entry, _ := led.Entry(1)
		entry.Point.Valence = point.MaxValence
		report.Tamper = &tamperReport{
			Index:  1,
			Field:  "valence",
			Verify: ops.VerifyChain(led),
		}
	}

	return report, nil
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vErr, ok := err.(*verrors.VellumError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// splitLines splits input into non-empty trimmed lines.
func splitLines(s string) []string {
	parts := strings.Split(s, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
