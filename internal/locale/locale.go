// Package locale loads the user-facing strings for a language.
package locale

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fallback is the language used when the configured one has no file.
const Fallback = "en"

//go:embed locales/*.yaml
var files embed.FS

// Language holds every translated string the UI shows.
type Language struct {
	AppSubTitle        string `yaml:"app_sub_title"`
	About              string `yaml:"about"`
	Settings           string `yaml:"settings"`
	Developed          string `yaml:"developed"`
	Golang             string `yaml:"golang"`
	Credits            string `yaml:"credits"`
	Informations       string `yaml:"informations"`
	Search             string `yaml:"search"`
	ErrorString        string `yaml:"error_string"`
	ImageOrTagNotFound string `yaml:"image_or_tag_not_found"`
	Back               string `yaml:"back"`
	Images             string `yaml:"images"`
	Name               string `yaml:"name"`
	Tag                string `yaml:"tag"`
	Registry           string `yaml:"registry"`
	Architecture       string `yaml:"architecture"`
	Digest             string `yaml:"digest"`
	Created            string `yaml:"created"`
	Size               string `yaml:"size"`
	Layers             string `yaml:"layers"`
	Pull               string `yaml:"pull"`
	Loading            string `yaml:"loading"`
	NoImages           string `yaml:"no_images"`
	Retry              string `yaml:"retry"`
	Refresh            string `yaml:"refresh"`
	PartialLoad        string `yaml:"partial_load"`
	CacheEntries       string `yaml:"cache_entries"`

	// Help screen
	HelpNavigation    string `yaml:"help_navigation"`
	HelpMenu          string `yaml:"help_menu"`
	HelpMove          string `yaml:"help_move"`
	HelpSelect        string `yaml:"help_select"`
	HelpBack          string `yaml:"help_back"`
	HelpQuit          string `yaml:"help_quit"`
	HelpDetails       string `yaml:"help_details"`
	HelpShowDetails   string `yaml:"help_show_details"`
	HelpReloadCatalog string `yaml:"help_reload_catalog"`
	HelpReloadImage   string `yaml:"help_reload_image"`
	HelpPage          string `yaml:"help_page"`
	HelpClearCache    string `yaml:"help_clear_cache"`
	HelpClose         string `yaml:"help_close"`
}

// Load returns the strings for lang, falling back to English when lang
// has no file. The returned code is the language actually loaded.
func Load(lang string) (Language, string, error) {
	l, err := parse(lang)
	if err == nil {
		return l, lang, nil
	}
	l, ferr := parse(Fallback)
	if ferr != nil {
		return Language{}, "", fmt.Errorf("load fallback locale: %w", ferr)
	}
	return l, Fallback, nil
}

// Available lists the embedded language codes.
func Available() []string {
	entries, err := files.ReadDir("locales")
	if err != nil {
		return nil
	}
	var codes []string
	for _, e := range entries {
		name := e.Name()
		codes = append(codes, name[:len(name)-len(".yaml")])
	}
	return codes
}

func parse(lang string) (Language, error) {
	if lang == "" {
		return Language{}, fmt.Errorf("empty language code")
	}
	data, err := files.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return Language{}, fmt.Errorf("read locale %s: %w", lang, err)
	}
	var l Language
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Language{}, fmt.Errorf("parse locale %s: %w", lang, err)
	}
	return l, nil
}
