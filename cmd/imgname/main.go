package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/unclefomotw/better-image-naming/internal/config"
	"github.com/unclefomotw/better-image-naming/internal/model"
	"github.com/unclefomotw/better-image-naming/internal/ollama"
	"github.com/unclefomotw/better-image-naming/internal/rename"
	"github.com/unclefomotw/better-image-naming/internal/tui"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	// Command line flags
	var modelName string
	flag.StringVar(&modelName, "model", "", "Ollama vision model to use (default gemma3:4b)")
	flag.StringVar(&modelName, "m", "", "Same as --model")

	var (
		hostFlag    = flag.String("host", "", "Ollama service URL (default http://localhost:11434)")
		inPlaceFlag = flag.Bool("in-place", false, "Rename the file in place instead of creating a copy")
		timeoutFlag = flag.Int("timeout", 0, "Inference timeout in seconds (default 60)")
		maxEdgeFlag = flag.Int("max-edge", -1, "Downscale the upload payload to this many pixels on the longest edge; 0 disables (default 1024)")
		configFlag  = flag.String("config", "", "Path to config file")
		checkFlag   = flag.Bool("check", false, "Check the Ollama service and model availability, then exit")
		plainFlag   = flag.Bool("plain", false, "Plain line output instead of the interactive spinner")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Usage = printUsage
	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if modelName != "" {
		settings.Model = modelName
	}
	if *hostFlag != "" {
		settings.Host = *hostFlag
	}
	if *timeoutFlag > 0 {
		settings.TimeoutSeconds = *timeoutFlag
	}
	if *maxEdgeFlag >= 0 {
		settings.MaxImageEdge = *maxEdgeFlag
	}
	if *plainFlag {
		settings.Plain = true
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if *checkFlag {
		os.Exit(runCheck(ctx, settings))
	}

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	req := &model.Request{
		Path:    flag.Arg(0),
		Model:   settings.Model,
		InPlace: *inPlaceFlag,
	}

	var err error
	if settings.Plain || !isTerminal(os.Stdout) {
		err = runPlain(ctx, settings, req)
	} else {
		err = runInteractive(ctx, cancel, settings, req)
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

// runPlain executes the pipeline printing one line per progress event,
// suitable for scripts and non-terminal output.
func runPlain(ctx context.Context, settings *config.Settings, req *model.Request) error {
	manager := rename.NewManager(settings, func(event rename.ProgressEvent) {
		if event.Level == rename.LevelVerbose && !settings.Verbose {
			return
		}
		fmt.Println(renderEvent(event))
	})
	_, err := manager.Run(ctx, req)
	return err
}

// runInteractive executes the pipeline behind the spinner UI. The pipeline
// runs in a goroutine and feeds the Bubble Tea program with progress and
// completion messages.
func runInteractive(ctx context.Context, cancel context.CancelFunc, settings *config.Settings, req *model.Request) error {
	program := tea.NewProgram(tui.NewModel(req.Path, req.Model, settings.Verbose, cancel))

	manager := rename.NewManager(settings, func(event rename.ProgressEvent) {
		program.Send(tui.ProgressMsg{Event: event})
	})

	go func() {
		result, err := manager.Run(ctx, req)
		program.Send(tui.DoneMsg{Result: result, Err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return err
	}

	return finalModel.(tui.Model).Err()
}

// runCheck probes the Ollama service and reports whether the configured
// model is ready, without running any inference.
func runCheck(ctx context.Context, settings *config.Settings) int {
	client := ollama.NewClient(settings.Host, settings.Timeout())

	report, err := client.Check(ctx, settings.Model)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		if errors.Is(err, ollama.ErrConnection) {
			fmt.Fprintln(os.Stderr, "Is the Ollama service running? Try: ollama serve")
		}
		return 1
	}

	fmt.Printf("Ollama %s at %s\n", report.Version, client.Host())
	if report.ModelFound {
		fmt.Println(successStyle.Render("✓ ") + settings.Model + " is available")
		return 0
	}

	fmt.Println(errorStyle.Render("✗ ") + settings.Model + " is not pulled. Try: ollama pull " + settings.Model)
	if len(report.Models) > 0 {
		fmt.Println(dimStyle.Render("Available models:"))
		for _, name := range report.Models {
			fmt.Println(dimStyle.Render("  " + name))
		}
	}
	return 1
}

func renderEvent(event rename.ProgressEvent) string {
	switch event.Level {
	case rename.LevelError:
		return errorStyle.Render("✗ ") + event.Message
	case rename.LevelWarning:
		return warningStyle.Render("! ") + event.Message
	case rename.LevelSuccess:
		return successStyle.Render("✓ ") + event.Message
	case rename.LevelVerbose:
		return dimStyle.Render("  " + event.Message)
	default:
		return "  " + event.Message
	}
}

// isTerminal reports whether f is attached to a terminal; piped output
// falls back to plain rendering.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func printUsage() {
	fmt.Println("imgname - Rename an image file based on its content using Ollama vision models")
	fmt.Println()
	fmt.Println("The new name is <UTC mtime>_<description><ext>, e.g. 20231215143022_sunset_beach.jpg.")
	fmt.Println("By default a copy is created; use --in-place to rename instead.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  imgname [options] <image>")
	fmt.Println("  imgname --check")
	fmt.Println()
	flag.PrintDefaults()
}
