// Package pages renders the static screens reachable from the drawer and
// the error screen shown when a registry request fails.
package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wallforfry/harbor/internal/config"
	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/registry"
	"github.com/wallforfry/harbor/internal/ui"
)

// Homepage is opened from the About page.
const Homepage = "https://gitlab.com/wallforfry/harbor"

var bold = lipgloss.NewStyle().Bold(true)

func row(label, value string) string {
	if value == "" {
		value = ui.StyleMuted.Render("-")
	}
	return "  " + ui.StyleLabel.Render(label) + value + "\n"
}

func hint(keyName, desc string) string {
	return "  " + ui.StyleMuted.Render(keyName+" "+desc) + "\n"
}

// About describes the application.
func About(lang locale.Language, title, version string) string {
	var b strings.Builder
	b.WriteString("\n" + bold.Render("  "+lang.About) + "\n\n")
	b.WriteString(row(title, version))
	b.WriteString("  " + lang.AppSubTitle + "\n")
	b.WriteString("  " + lang.Developed + " " + ui.StyleInfo.Render(lang.Golang) + "\n\n")
	b.WriteString(row(lang.Informations, Homepage))
	b.WriteString("\n" + hint("o", Homepage))
	return b.String()
}

// Settings shows the effective configuration. The password is never shown.
func Settings(lang locale.Language, cfg config.Config, cacheSize int64, cacheEntries int) string {
	secret := ""
	if cfg.Password != "" {
		secret = "********"
	}
	tls := "on"
	if !cfg.CheckTLS {
		tls = ui.StyleWarning.Render("off")
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  "+lang.Settings) + "\n\n")
	b.WriteString(row(lang.Registry, cfg.RegistryURL))
	b.WriteString(row("TLS", tls))
	b.WriteString(row("Username", cfg.Username))
	b.WriteString(row("Password", secret))
	b.WriteString(row("Language", cfg.Language))
	b.WriteString(row("Concurrency", fmt.Sprintf("%d", cfg.Concurrency)))
	b.WriteString(row("Timeout", cfg.Timeout.String()))

	b.WriteString("\n" + bold.Render("  Cache") + "\n\n")
	b.WriteString(row("Dir", cfg.Cache.Dir))
	b.WriteString(row("TTL", cfg.Cache.TTL.Round(time.Second).String()))
	b.WriteString(row(lang.Size, fmt.Sprintf("%s / %d MB", model.PrettifySize(cacheSize), cfg.Cache.SizeMB)))
	b.WriteString(row(lang.CacheEntries, fmt.Sprintf("%d", cacheEntries)))
	b.WriteString("\n" + hint("x", "clear cache"))
	return b.String()
}

// Credits lists the libraries the application is built on.
func Credits(lang locale.Language) string {
	libs := []string{
		"charmbracelet/bubbletea",
		"charmbracelet/bubbles",
		"charmbracelet/lipgloss",
		"cli/go-gh",
		"spf13/cobra",
		"spf13/viper",
		"tidwall/gjson",
		"uber-go/zap",
	}
	var b strings.Builder
	b.WriteString("\n" + bold.Render("  "+lang.Credits) + "\n\n")
	for _, l := range libs {
		b.WriteString("  - " + l + "\n")
	}
	return b.String()
}

// ErrorPage is the content of the error screen.
type ErrorPage struct {
	Code    int
	Message string
}

// FromError maps a registry error onto an error page.
func FromError(lang locale.Language, err error) ErrorPage {
	var httpErr *registry.HTTPError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return ErrorPage{Code: 404, Message: lang.ImageOrTagNotFound}
	case errors.Is(err, registry.ErrUnauthorized):
		return ErrorPage{Code: 401, Message: err.Error()}
	case errors.As(err, &httpErr):
		return ErrorPage{Code: httpErr.StatusCode, Message: err.Error()}
	case err != nil:
		return ErrorPage{Message: err.Error()}
	default:
		return ErrorPage{Message: lang.ErrorString}
	}
}

func (p ErrorPage) Render(lang locale.Language) string {
	title := lang.ErrorString
	if p.Code != 0 {
		title = fmt.Sprintf("%s %d", lang.ErrorString, p.Code)
	}
	var b strings.Builder
	b.WriteString("\n  " + ui.HTTPStatusStyle(p.Code).Bold(true).Render(title) + "\n\n")
	b.WriteString("  " + p.Message + "\n\n")
	b.WriteString(hint("esc", lang.Back))
	return b.String()
}
