package navigation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemOpenerOutlivesRequest(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("stub url handler is a linux shell script")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "opened")
	stub := "#!/bin/sh\nsleep 0.3\nprintf '%s' \"$1\" > '" + out + "'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xdg-open"), []byte(stub), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	ctx, cancel := context.WithCancel(context.Background())
	opener := SystemOpener{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, opener.Open(ctx, "https://m.facebook.com/sharer.php"))
	cancel()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "https://m.facebook.com/sharer.php"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSystemOpenerMissingHandler(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on xdg-open lookup through PATH")
	}

	t.Setenv("PATH", t.TempDir())
	err := SystemOpener{}.Open(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "failed to start url handler")
}

func TestLogOpener(t *testing.T) {
	var buf bytes.Buffer
	opener := LogOpener{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	require.NoError(t, opener.Open(context.Background(), "https://twitter.com/intent/tweet"))
	assert.True(t, strings.Contains(buf.String(), `"url":"https://twitter.com/intent/tweet"`))
}
