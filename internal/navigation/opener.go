package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// URLOpener hands a URL to something outside the embedded page.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener launches the operating system's default URL handler. The
// handler outlives the request that triggered it.
type SystemOpener struct {
	Logger *slog.Logger
}

func (o SystemOpener) Open(ctx context.Context, url string) error {
	cmd, ok := openCommand(url)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start url handler: %w", err)
	}

	go func() {
		if err := cmd.Wait(); err != nil && o.Logger != nil {
			o.Logger.WarnContext(context.WithoutCancel(ctx), "url handler failed", "url", url, "error", err)
		}
	}()

	return nil
}

func openCommand(url string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", url), true
	case "darwin":
		return exec.Command("open", url), true
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), true
	default:
		return nil, false
	}
}

// LogOpener only records the hand-off. Used when the process has no desktop
// to open URLs on and the host follows the decision itself.
type LogOpener struct {
	Logger *slog.Logger
}

func (o LogOpener) Open(ctx context.Context, url string) error {
	o.Logger.InfoContext(ctx, "external url handed off", "url", url)
	return nil
}
