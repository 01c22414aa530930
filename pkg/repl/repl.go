// Package repl implements the interactive shell started when the tool is
// invoked without a subcommand.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/auth"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/config"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/downloader"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/ui"
)

const prompt = "catgirl> "

const helpText = `Commands:
  help            show this help
  show            show current settings
  set <k> <v>     change a setting (see: show)
  run             download with the current settings
  providers       list providers and their capabilities
  categories      list provider-to-theme mappings
  clear           clear the screen
  exit, quit      leave the shell
`

// RunFunc executes one download with the session's current settings.
type RunFunc func(ctx context.Context, session *Session) error

// REPL is the interactive shell.
type REPL struct {
	cfg      *config.Config
	creds    auth.Store
	logger   logger.Logger
	session  *Session
	registry *providers.Registry
	run      RunFunc
	out      io.Writer
}

// New builds a shell over the loaded configuration.
func New(cfg *config.Config, creds auth.Store, log logger.Logger) *REPL {
	client := providers.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	registry := providers.NewRegistry(client, cfg, creds, log)
	r := &REPL{
		cfg:      cfg,
		creds:    creds,
		logger:   log,
		session:  NewSession(cfg, registry.Names()),
		registry: registry,
		out:      os.Stdout,
	}
	r.run = r.executeRun
	return r
}

// Run reads and dispatches commands until exit or EOF. A terminal gets
// readline with tab completion and history; piped input falls back to a
// plain line reader.
func (r *REPL) Run(ctx context.Context) error {
	ui.PrintBanner()
	fmt.Fprintln(r.out, "Type `help` for commands, `run` to download. Ctrl-D exits.")

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return r.runPlain(ctx)
	}
	return r.runReadline(ctx)
}

func (r *REPL) runReadline(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    r.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil { // io.EOF
			return nil
		}
		if r.dispatch(ctx, line) {
			return nil
		}
	}
}

func (r *REPL) runPlain(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(r.out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if r.dispatch(ctx, scanner.Text()) {
			return nil
		}
	}
}

// dispatch handles one input line. It returns true when the shell should
// exit.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "help", "?":
		fmt.Fprint(r.out, helpText)
	case "show":
		fmt.Fprintln(r.out, ui.SettingsTable(r.session.Pairs()))
	case "set":
		r.handleSet(fields[1:])
	case "run":
		if err := r.run(ctx, r.session); err != nil {
			ui.PrintError(err.Error())
		}
	case "providers":
		fmt.Fprintln(r.out, ui.ProvidersTable(r.registry.Rows()))
	case "categories":
		fmt.Fprintln(r.out, ui.CategoriesTable(r.registry.CategoryMappings()))
	case "clear":
		fmt.Fprint(r.out, "\033[2J\033[H")
	case "exit", "quit":
		return true
	default:
		ui.PrintError(fmt.Sprintf("unknown command %q, try `help`", fields[0]))
	}
	return false
}

func (r *REPL) handleSet(args []string) {
	if len(args) != 2 {
		ui.PrintError("usage: set <setting> <value>")
		return
	}
	if err := r.session.Set(args[0], args[1]); err != nil {
		ui.PrintError(err.Error())
		return
	}
	if canonicalField(args[0]) == "verbose" {
		level := "warn"
		if r.session.Verbose {
			level = "debug"
		}
		_ = logger.Initialize(level)
		r.logger = logger.GetLogger()
	}
	ui.PrintSuccess(fmt.Sprintf("%s = %s", canonicalField(args[0]), args[1]))
}

// completer builds tab completion for commands, settings and their values.
func (r *REPL) completer() *readline.PrefixCompleter {
	setItems := make([]readline.PrefixCompleterInterface, 0, len(r.session.Fields()))
	for _, field := range r.session.Fields() {
		values := r.session.ValuesFor(field)
		valueItems := make([]readline.PrefixCompleterInterface, len(values))
		for i, value := range values {
			valueItems[i] = readline.PcItem(value)
		}
		setItems = append(setItems, readline.PcItem(field, valueItems...))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("show"),
		readline.PcItem("set", setItems...),
		readline.PcItem("run"),
		readline.PcItem("providers"),
		readline.PcItem("categories"),
		readline.PcItem("clear"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

// executeRun performs one download run with the current settings.
func (r *REPL) executeRun(ctx context.Context, session *Session) error {
	client := providers.NewClient(time.Duration(session.Timeout)*time.Second, r.cfg.HTTP.UserAgent, r.logger)
	registry := providers.NewRegistry(client, r.cfg, r.creds, r.logger)
	runner := downloader.New(registry, client, r.logger)
	runner.SetShowProgress(term.IsTerminal(int(os.Stderr.Fd())))

	results, err := runner.Run(ctx, downloader.Request{
		Count:     session.Count,
		Provider:  session.Provider,
		Theme:     session.Theme,
		Rating:    session.Rating,
		Randomize: session.Randomize,
		OutputDir: session.OutputDir,
	})
	if err != nil {
		return err
	}

	for _, warning := range runner.Warnings() {
		ui.PrintWarning(warning)
	}
	summary := downloader.Summarize(session.Count, session.OutputDir, results)
	fmt.Fprintln(r.out, ui.RenderSummary(summary))
	return nil
}
