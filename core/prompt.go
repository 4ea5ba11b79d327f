package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

var (
	colorUserHost = color.New(color.FgGreen, color.Bold)
	colorDir      = color.New(color.FgBlue, color.Bold)
)

// ShortenDir keeps the last path element of dir, including its leading
// separator. The root directory is returned unchanged.
func ShortenDir(dir string) string {
	i := strings.LastIndex(dir, string(filepath.Separator))
	if i < 0 {
		return dir
	}
	return dir[i:]
}

// Prompt renders <user>@<shell>:~<dir>$ for the current state.
func (s *Session) Prompt() string {
	userHost := fmt.Sprintf("%s@%s", s.username, s.shellName)
	dir := "~" + s.state.DisplayedDir

	if s.colorPrompt {
		userHost = colorUserHost.Sprint(userHost)
		dir = colorDir.Sprint(dir)
	}
	return fmt.Sprintf("%s:%s$ ", userHost, dir)
}
