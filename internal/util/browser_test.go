package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", ServerURL(8080))
}

func TestBrowserCommands(t *testing.T) {
	const url = "http://localhost:1"

	win := browserCommands("windows", url)
	require.Len(t, win, 2)
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler", url}, win[0])
	assert.Equal(t, "explorer", win[1][0])

	mac := browserCommands("darwin", url)
	assert.Equal(t, [][]string{{"open", url}}, mac)

	linux := browserCommands("linux", url)
	require.Len(t, linux, 1+len(linuxBrowsers))
	assert.Equal(t, "xdg-open", linux[0][0])
	for _, c := range linux {
		assert.Equal(t, url, c[len(c)-1])
	}
}

func TestOpenWith_FallsBack(t *testing.T) {
	var tried []string
	err := openWith(browserCommands("linux", "http://x"), func(name string, _ ...string) error {
		tried = append(tried, name)
		if name == "firefox" {
			return nil
		}
		return errors.New("missing")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"xdg-open", "google-chrome", "firefox"}, tried)
}

func TestOpenWith_AllFail(t *testing.T) {
	boom := errors.New("missing")
	err := openWith(browserCommands("darwin", "http://x"), func(string, ...string) error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "http://x")

	assert.Error(t, openWith(nil, nil))
}
