package app

import (
	"log/slog"
	"os/exec"
	"runtime"
)

// openBrowser launches the system browser at url, fire-and-forget. Failures
// are logged and otherwise ignored; serving never depends on it.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("could not open browser", "url", url, "error", err)
		return
	}
	// Reap the child in the background.
	go cmd.Wait()
}
