package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/arin/tutor-cli/internal/ai"
	"github.com/arin/tutor-cli/internal/config"
	"github.com/arin/tutor-cli/internal/conversation"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorProbe bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and backend health",
	Long: `Run a health check on your tutor setup.
Verifies the config directory, the chat backend's reachability and,
with --probe, that /chat streams a reply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		dim := color.New(color.FgHiBlack)
		cyan := color.New(color.FgCyan, color.Bold)

		cyan.Fprintf(os.Stderr, "\n  🩺 tutor doctor\n\n")

		pass, fail, warn := 0, 0, 0

		check := func(name string, fn func() (string, error)) {
			detail, err := fn()
			if err != nil {
				if strings.HasPrefix(err.Error(), "warn:") {
					yellow.Fprintf(os.Stderr, "  ⚠ %s\n", name)
					dim.Fprintf(os.Stderr, "    %s\n", strings.TrimPrefix(err.Error(), "warn:"))
					warn++
				} else {
					red.Fprintf(os.Stderr, "  ✗ %s\n", name)
					dim.Fprintf(os.Stderr, "    %s\n", err.Error())
					fail++
				}
			} else {
				green.Fprintf(os.Stderr, "  ✓ %s", name)
				if detail != "" {
					dim.Fprintf(os.Stderr, " — %s", detail)
				}
				fmt.Fprintln(os.Stderr)
				pass++
			}
		}

		client := ai.NewClient(cfg.APIURL)

		check("Config directory", func() (string, error) {
			dir := config.Dir()
			info, err := os.Stat(dir)
			if err != nil {
				return "", fmt.Errorf("warn:~/.tutor-cli not found — defaults are in use")
			}
			if !info.IsDir() {
				return "", fmt.Errorf("~/.tutor-cli exists but is not a directory")
			}
			return dir, nil
		})

		check("Chat backend reachable", func() (string, error) {
			ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				return "", fmt.Errorf("could not connect to %s — start one with: tutor serve", cfg.APIURL)
			}
			return cfg.APIURL, nil
		})

		if doctorProbe {
			check("Chat endpoint streams", func() (string, error) {
				return probe(cmd.Context(), client)
			})
		}

		check("System info", func() (string, error) {
			return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), nil
		})

		fmt.Fprintln(os.Stderr)
		total := pass + fail + warn
		if fail == 0 && warn == 0 {
			green.Fprintf(os.Stderr, "  All %d checks passed. You're good to go.\n\n", total)
		} else if fail == 0 {
			yellow.Fprintf(os.Stderr, "  %d passed, %d warnings. Everything works, but some things could be better.\n\n", pass, warn)
		} else {
			red.Fprintf(os.Stderr, "  %d passed, %d failed, %d warnings. Fix the failures above.\n\n", pass, fail, warn)
		}

		return nil
	},
}

// probe runs one real round and reports how many fragments arrived.
func probe(ctx context.Context, client *ai.Client) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fragments := 0
	state := conversation.New(conversation.WithObserver(func(c conversation.Change) {
		if c.Kind == conversation.TurnUpdated {
			fragments++
		}
	}))
	if err := conversation.NewSession(state, client).Send(ctx, "ping"); err != nil {
		return "", fmt.Errorf("round failed: %v", err)
	}
	if fragments == 0 {
		return "", fmt.Errorf("warn:stream closed without any text")
	}
	return fmt.Sprintf("%d fragments, %d chars", fragments, len(state.Last().Text)), nil
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorProbe, "probe", false, "Send a test message and check that a reply streams back")
}
