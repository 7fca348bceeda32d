package util

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// linuxBrowsers xdg-open 不可用时依次尝试
var linuxBrowsers = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}

// ServerURL 本机仪表盘地址
func ServerURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// browserCommands 按平台返回候选命令，按顺序尝试
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 更稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	}
	cmds := [][]string{{"xdg-open", url}}
	for _, b := range linuxBrowsers {
		cmds = append(cmds, []string{b, url})
	}
	return cmds
}

// OpenURL 用默认浏览器打开地址，全部候选失败时返回最后一个错误
func OpenURL(url string) error {
	return openWith(browserCommands(runtime.GOOS, url), func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	})
}

func openWith(cmds [][]string, start func(name string, args ...string) error) error {
	if len(cmds) == 0 {
		return errors.New("no browser command available")
	}
	var lastErr error
	for _, c := range cmds {
		if lastErr = start(c[0], c[1:]...); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("open browser for %s: %w", cmds[0][len(cmds[0])-1], lastErr)
}
