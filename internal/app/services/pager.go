package services

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazydiff/internal/config"
)

// PagerCommand determines the pager used to show the preview text.
func PagerCommand(cfg *config.AppConfig) string {
	if cfg != nil {
		if pager := strings.TrimSpace(cfg.Pager); pager != "" {
			return pager
		}
	}
	if pager := strings.TrimSpace(os.Getenv("PAGER")); pager != "" {
		return pager
	}
	if _, err := exec.LookPath("less"); err == nil {
		return "less -R"
	}
	if _, err := exec.LookPath("more"); err == nil {
		return "more"
	}
	return "cat"
}

// PagerEnv returns extra environment entries for the pager.
func PagerEnv(pager string) []string {
	if pagerIsLess(pager) {
		return []string{"LESS=", "LESSHISTFILE=-"}
	}
	return nil
}

// PagerCmd builds the command that reads the preview text from stdin.
func PagerCmd(pager string, content string) *exec.Cmd {
	// #nosec G204 -- the pager is the user's own configured command
	cmd := exec.Command("sh", "-c", pager)
	cmd.Stdin = strings.NewReader(content)
	cmd.Env = append(os.Environ(), PagerEnv(pager)...)
	return cmd
}

func pagerIsLess(pager string) bool {
	for field := range strings.FieldsSeq(pager) {
		if strings.Contains(field, "=") && !strings.HasPrefix(field, "-") && !strings.Contains(field, "/") {
			continue
		}
		return filepath.Base(field) == "less"
	}
	return false
}
