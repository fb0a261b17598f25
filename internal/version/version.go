// Package version resolves the version, commit and build date shown by the
// version command and the info tab.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Name is the program name shown in version output.
const Name = "crux-dashboard-tui"

// Set via -ldflags "-X .../internal/version.Version=..." at build time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	readBuildInfo = debug.ReadBuildInfo
	gitOutput     = runGit
)

// resolve fills the unset values. Priority: ldflags, then the module build
// info, then git, then a placeholder.
func resolve() {
	once.Do(func() {
		settings := buildSettings()

		if Version == "" {
			Version = firstNonEmpty(settings["main.version"], gitVersion(), "dev")
		}
		if Commit == "" {
			Commit = firstNonEmpty(shortRevision(settings["vcs.revision"]), gitCommit(), "unknown")
		}
		if Date == "" {
			Date = firstNonEmpty(settings["vcs.time"], time.Now().Format("2006-01-02"))
		}
	})
}

// Reset clears the resolved values so they are computed again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

func buildSettings() map[string]string {
	out := make(map[string]string)
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return out
	}
	// "(devel)" is what go run and go test report.
	if v := info.Main.Version; v != "" && v != "(devel)" {
		out["main.version"] = strings.TrimPrefix(v, "v")
	}
	for _, s := range info.Settings {
		out[s.Key] = s.Value
	}
	return out
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func gitCommit() string {
	out, err := gitOutput("describe", "--always", "--dirty")
	if err != nil {
		return ""
	}
	return out
}

func gitVersion() string {
	out, err := gitOutput("describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(out, "v")
}

// GetVersion returns the resolved version.
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the resolved commit.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	resolve()
	return Date
}

// Info returns a one line summary for the version command.
func Info() string {
	resolve()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s, %s/%s)",
		Name, Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
