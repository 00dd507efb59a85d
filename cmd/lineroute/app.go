package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"lineroute/internal/completion"
	"lineroute/internal/condition"
	"lineroute/internal/dispatcher"
	"lineroute/internal/logger"
	"lineroute/internal/specfile"
	"lineroute/internal/version"
	"lineroute/pkg/routetypes"
)

// consoleActor is the actor behind the interactive prompt and batch runner.
type consoleActor struct{}

func (consoleActor) ID() string      { return "console" }
func (consoleActor) Name() string    { return "console" }
func (consoleActor) IsConsole() bool { return true }

// consoleChecker grants every permission to console actors and none to
// anyone else. The demo has no user database.
type consoleChecker struct{}

func (consoleChecker) HasPermission(actor routetypes.Actor, _ string) bool {
	return actor.IsConsole()
}

// demoApp wires the engine to a demo command set and a terminal.
type demoApp struct {
	dispatcher *dispatcher.Dispatcher
	completer  *completion.Engine
	started    time.Time
	quit       bool
}

func newDemoApp(strict bool, manifestPath string) (*demoApp, error) {
	config := routetypes.DefaultDispatcherConfig()
	config.StrictArgs = strict

	app := &demoApp{
		dispatcher: dispatcher.New(consoleChecker{}, config),
		started:    time.Now(),
	}
	app.completer = completion.New(app.dispatcher.Registry(), consoleChecker{}, config.FlagPrefix)

	// One throttle on top of the built-in conditions, to show rate limiting
	// independent of per-command cooldowns.
	app.dispatcher.AddCondition(condition.NewThrottleCondition(10, 20))

	if err := app.registerCommands(); err != nil {
		return nil, err
	}
	if manifestPath != "" {
		if err := app.loadManifest(manifestPath); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (a *demoApp) Close() {
	a.dispatcher.Close()
}

func (a *demoApp) registerCommands() error {
	specs := []routetypes.CommandSpec{
		{
			Path:        "echo",
			Description: "Print the given text back.",
			Usage:       "echo <text...>",
			Parameters: []routetypes.ParameterSpec{
				{Name: "text", Type: routetypes.TypeText},
			},
			Handler: func(inv routetypes.Invocation) (any, error) {
				return inv.String("text"), nil
			},
		},
		{
			Path:        "roll",
			Description: "Roll a die.",
			Usage:       "roll [sides]",
			Cooldown:    2 * time.Second,
			Parameters: []routetypes.ParameterSpec{
				{
					Name: "sides", Type: routetypes.TypeInt, Defaults: []string{"20"},
					Validators: []routetypes.Validator{routetypes.Range(2, 1000)},
				},
			},
			Handler: func(inv routetypes.Invocation) (any, error) {
				sides := inv.Int("sides")
				return fmt.Sprintf("rolled %d (d%d)", rand.Intn(sides)+1, sides), nil
			},
		},
		{
			Path:        "id new",
			Description: "Generate a fresh UUID.",
			Usage:       "id new [--upper]",
			Parameters: []routetypes.ParameterSpec{
				{Name: "upper", Switch: true},
			},
			Handler: func(inv routetypes.Invocation) (any, error) {
				id := uuid.NewString()
				if inv.Bool("upper") {
					id = strings.ToUpper(id)
				}
				return id, nil
			},
		},
		{
			Path:        "id check",
			Description: "Validate a UUID.",
			Usage:       "id check <uuid>",
			Parameters: []routetypes.ParameterSpec{
				{Name: "id", Type: routetypes.TypeUUID},
			},
			Handler: func(inv routetypes.Invocation) (any, error) {
				return fmt.Sprintf("%v is a valid UUID", inv.Value("id")), nil
			},
		},
		{
			Path:        "wait",
			Description: "Sleep for a duration.",
			Usage:       "wait <duration>",
			Parameters: []routetypes.ParameterSpec{
				{Name: "for", Type: routetypes.TypeDuration},
			},
			Handler: func(inv routetypes.Invocation) (any, error) {
				d, _ := inv.Value("for").(time.Duration)
				time.Sleep(d)
				return fmt.Sprintf("waited %s", d), nil
			},
		},
		{
			Path:        "uptime",
			Description: "Show how long this session has been running.",
			Usage:       "uptime",
			Handler: func(routetypes.Invocation) (any, error) {
				return time.Since(a.started).Round(time.Second).String(), nil
			},
		},
		{
			Path:        "help",
			Description: "List available commands.",
			Usage:       "help",
			Handler: func(inv routetypes.Invocation) (any, error) {
				return a.renderHelp(inv.Actor())
			},
		},
		{
			Path:        "version",
			Description: "Show engine version.",
			Usage:       "version",
			Handler: func(routetypes.Invocation) (any, error) {
				return version.GetFormattedVersion(), nil
			},
		},
		{
			Path:        "admin shutdown",
			Permission:  "demo.admin",
			Description: "Leave the prompt.",
			Usage:       "admin shutdown",
			Parameters: []routetypes.ParameterSpec{
				{Name: "console", Type: routetypes.TypeConsole},
			},
			Handler: func(routetypes.Invocation) (any, error) {
				a.quit = true
				return "bye", nil
			},
		},
		{
			Path:        "admin",
			Default:     true,
			Permission:  "demo.admin",
			Description: "Show admin status.",
			Handler: func(routetypes.Invocation) (any, error) {
				return "admin console ready", nil
			},
		},
	}

	for _, spec := range specs {
		if err := a.dispatcher.Register(spec); err != nil {
			return fmt.Errorf("failed to register %q: %w", spec.Path, err)
		}
	}
	return nil
}

// loadManifest registers extra commands from a YAML manifest, binding every
// entry to the generic echo handler since the demo ships no other behaviors.
func (a *demoApp) loadManifest(path string) error {
	manifest, err := specfile.Load(path)
	if err != nil {
		return err
	}

	handlers := map[string]routetypes.HandlerFunc{
		"demo.echo": func(inv routetypes.Invocation) (any, error) {
			return fmt.Sprintf("%s %v", inv.CommandPath(), inv.Values()), nil
		},
	}
	commands, categories, err := manifest.Compile(handlers)
	if err != nil {
		return err
	}

	for _, cat := range categories {
		if err := a.dispatcher.RegisterCategory(cat); err != nil {
			return err
		}
	}
	for _, cmd := range commands {
		if err := a.dispatcher.Register(cmd); err != nil {
			return err
		}
	}
	logger.Info("Manifest loaded", "path", path, "commands", len(commands))
	return nil
}

// renderHelp builds a markdown command listing and renders it for the
// terminal. Secret commands and commands the actor cannot run are omitted.
func (a *demoApp) renderHelp(actor routetypes.Actor) (string, error) {
	execs := a.dispatcher.Registry().Executables()

	var md strings.Builder
	md.WriteString("# Commands\n\n")
	for _, exec := range execs {
		if exec.Secret() {
			continue
		}
		if perm := exec.Permission(); perm != "" && !(consoleChecker{}).HasPermission(actor, perm) {
			continue
		}
		usage := exec.Usage()
		if usage == "" {
			usage = exec.Path().String()
		}
		fmt.Fprintf(&md, "- `%s` %s\n", usage, exec.Description())
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md.String(), nil
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String(), nil
	}
	return out, nil
}

// RunRepl reads lines from in and dispatches them until EOF, "exit", or the
// shutdown command.
func (a *demoApp) RunRepl(in io.Reader, out io.Writer) {
	actor := consoleActor{}
	a.installTerminalHandlers(out)

	fmt.Fprintf(out, "LineRoute v%s - type 'help' for commands, '?<partial>' for completion, 'exit' to quit.\n", version.GetVersion())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "lineroute> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			return
		}
		if strings.HasPrefix(trimmed, "?") {
			candidates := a.completer.Complete(actor, strings.TrimPrefix(trimmed, "?"))
			if len(candidates) == 0 {
				fmt.Fprintln(out, "(no completions)")
			} else {
				fmt.Fprintln(out, strings.Join(candidates, "  "))
			}
			continue
		}

		// Errors are already rendered by the installed handlers.
		_ = a.dispatcher.Dispatch(actor, line)

		if a.quit {
			return
		}
	}
}

// RunScript dispatches every non-comment line of the file at path.
func (a *demoApp) RunScript(path string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	a.installTerminalHandlers(out)
	actor := consoleActor{}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := a.dispatcher.Dispatch(actor, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if a.quit {
			return nil
		}
	}
	return scanner.Err()
}

// installTerminalHandlers points responses and errors at the terminal with a
// little color when the terminal supports it.
func (a *demoApp) installTerminalHandlers(out io.Writer) {
	okStyle := lipgloss.NewStyle()
	errStyle := lipgloss.NewStyle()
	if lipgloss.ColorProfile() != termenv.Ascii {
		okStyle = okStyle.Foreground(lipgloss.Color("10"))
		errStyle = errStyle.Foreground(lipgloss.Color("9"))
	}

	a.dispatcher.SetResponder(routetypes.ResponseHandlerFunc(func(_ routetypes.Actor, _ string, value any) {
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("%v", value)))
	}))

	a.dispatcher.Router().SetFallback(dispatcher.ErrorHandlerFunc(func(_ routetypes.Actor, err *routetypes.RouteError) {
		fmt.Fprintln(out, errStyle.Render(renderError(err)))
	}))
}

// renderError turns a classified error into a terminal-friendly message.
func renderError(err *routetypes.RouteError) string {
	switch err.Kind {
	case routetypes.KindInvalidCommand:
		return fmt.Sprintf("unknown command %q, try 'help'", err.Token)
	case routetypes.KindInvalidSubcommand:
		return fmt.Sprintf("unknown subcommand %q", err.Token)
	case routetypes.KindNoSubcommandSpecified:
		return "a subcommand is required, try 'help'"
	case routetypes.KindMissingArgument:
		return fmt.Sprintf("missing argument %q", err.Parameter)
	case routetypes.KindCooldown:
		return fmt.Sprintf("on cooldown, wait %s", err.Remaining)
	case routetypes.KindThrottled:
		return fmt.Sprintf("slow down, retry in %s", err.Remaining)
	case routetypes.KindInsufficientPermission:
		return fmt.Sprintf("you need the %q permission", err.Permission)
	case routetypes.KindNumberNotInRange:
		return fmt.Sprintf("%s must be between %v and %v", err.Parameter, err.Min, err.Max)
	default:
		return err.Message
	}
}
