package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/pkg/lib"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var replFlags *pipelineFlags

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile snippets interactively",
	Long: "Read source snippets and print the compiled CSS. A snippet is compiled\n" +
		"once its braces balance, so blocks may span several lines.\n" +
		"Type .reset to drop a pending snippet and .exit (or Ctrl+D) to quit.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := replFlags.load()
		if err != nil {
			return err
		}

		rlCfg := &readline.Config{
			Prompt:          "css> ",
			InterruptPrompt: "^C",
			EOFPrompt:       ".exit",
		}
		if dir, err := resolveConfigDir(); err == nil {
			if err := os.MkdirAll(dir, 0o755); err == nil {
				rlCfg.HistoryFile = filepath.Join(dir, "repl_history")
			}
		}
		rl, err := readline.NewEx(rlCfg)
		if err != nil {
			return err
		}
		defer rl.Close()

		session := newReplSession(cfg)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if session.pending() {
					session.reset()
					rl.SetPrompt("css> ")
					continue
				}
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			switch strings.TrimSpace(line) {
			case ".exit":
				return nil
			case ".reset":
				session.reset()
				rl.SetPrompt("css> ")
				continue
			}

			out, done, err := session.feed(cmd.Context(), line)
			switch {
			case err != nil:
				lib.Stderr.Error("%v", err)
			case done:
				fmt.Fprintln(rl.Stdout(), out)
			}
			if session.pending() {
				rl.SetPrompt("...  ")
			} else {
				rl.SetPrompt("css> ")
			}
		}
	},
}

func init() {
	replFlags = bindPipelineFlags(replCmd.Flags())
}

// replSession accumulates lines until the braces of the snippet balance.
type replSession struct {
	cfg   cssyaml.Config
	buf   strings.Builder
	depth int
}

func newReplSession(cfg cssyaml.Config) *replSession {
	return &replSession{cfg: cfg}
}

func (s *replSession) pending() bool {
	return s.buf.Len() > 0
}

func (s *replSession) reset() {
	s.buf.Reset()
	s.depth = 0
}

// feed appends line to the pending snippet. Once the snippet is complete it
// is compiled and the session is reset, whatever the outcome.
func (s *replSession) feed(ctx context.Context, line string) (string, bool, error) {
	if strings.TrimSpace(line) == "" && !s.pending() {
		return "", false, nil
	}
	if s.pending() {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	s.depth += braceBalance(line)
	if s.depth > 0 {
		return "", false, nil
	}

	src := s.buf.String()
	s.reset()
	out, err := s.cfg.Pipeline().Run(ctx, src)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

// braceBalance counts opening minus closing braces outside quoted strings.
func braceBalance(line string) int {
	n := 0
	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			n++
		case r == '}':
			n--
		}
	}
	return n
}
