package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	HideTitleMarkup bool   `mapstructure:"hide_title_markup"`
	HideQuotes      bool   `mapstructure:"hide_quotes"`
	RevealAtPoint   bool   `mapstructure:"reveal_at_point"`
	TitleChars      string `mapstructure:"title_chars"`
	Interpreter     string `mapstructure:"interpreter"`
	Language        string `mapstructure:"language"`
	ColorTitle1     string `mapstructure:"color_title1"`
	ColorTitle2     string `mapstructure:"color_title2"`
	ColorTitle3     string `mapstructure:"color_title3"`
	ColorProse      string `mapstructure:"color_prose"`
	ColorMarkup     string `mapstructure:"color_markup"`
	ColorPrompt     string `mapstructure:"color_prompt"`
	ColorCode       string `mapstructure:"color_code"`
	ColorKeyword    string `mapstructure:"color_keyword"`
	ColorString     string `mapstructure:"color_string"`
	ColorComment    string `mapstructure:"color_comment"`
	ColorOverlay    string `mapstructure:"color_overlay"`
}

// C is the global config instance
var C Config

// subscribers are notified whenever an option changes at runtime, so
// every open document session re-runs its annotator with the new toggle
// values. Registration happens on the single UI thread.
var subscribers []func()

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("hide_title_markup", false)
	viper.SetDefault("hide_quotes", true)
	viper.SetDefault("reveal_at_point", false)
	viper.SetDefault("title_chars", "=-~")
	viper.SetDefault("interpreter", "python3")
	viper.SetDefault("language", "python")
	viper.SetDefault("color_title1", "212") // Pink
	viper.SetDefault("color_title2", "111") // Light blue
	viper.SetDefault("color_title3", "150") // Light green
	viper.SetDefault("color_prose", "252")  // Off-white
	viper.SetDefault("color_markup", "240") // Gray
	viper.SetDefault("color_prompt", "208") // Orange
	viper.SetDefault("color_code", "223")   // Tan
	viper.SetDefault("color_keyword", "176")
	viper.SetDefault("color_string", "114")
	viper.SetDefault("color_comment", "245")
	viper.SetDefault("color_overlay", "109")

	viper.SetConfigName("litpy")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "litpy"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("LITPY")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// OnChange registers a callback invoked after any runtime option change.
func OnChange(fn func()) {
	subscribers = append(subscribers, fn)
}

func notify() {
	for _, fn := range subscribers {
		fn()
	}
}

// GetHideTitleMarkup returns whether title markup is hidden
func GetHideTitleMarkup() bool {
	return viper.GetBool("hide_title_markup")
}

// GetHideQuotes returns whether backtick delimiters are hidden
func GetHideQuotes() bool {
	return viper.GetBool("hide_quotes")
}

// GetRevealAtPoint returns whether markup is revealed under the cursor
func GetRevealAtPoint() bool {
	return viper.GetBool("reveal_at_point")
}

// GetTitleChars returns the ordered underline style characters
func GetTitleChars() string {
	return viper.GetString("title_chars")
}

// GetInterpreter returns the interpreter command line
func GetInterpreter() string {
	return viper.GetString("interpreter")
}

// GetLanguage returns the embedded-language name for highlighting
func GetLanguage() string {
	return viper.GetString("language")
}

// GetColor returns the configured color for a named style
func GetColor(name string) string {
	return viper.GetString("color_" + name)
}

// SetHideTitleMarkup sets the title-markup toggle at runtime
func SetHideTitleMarkup(v bool) {
	viper.Set("hide_title_markup", v)
	C.HideTitleMarkup = v
	notify()
}

// SetHideQuotes sets the quote-hiding toggle at runtime
func SetHideQuotes(v bool) {
	viper.Set("hide_quotes", v)
	C.HideQuotes = v
	notify()
}

// SetRevealAtPoint sets the reveal-at-point toggle at runtime
func SetRevealAtPoint(v bool) {
	viper.Set("reveal_at_point", v)
	C.RevealAtPoint = v
	notify()
}

// ToggleHideTitleMarkup flips the title-markup toggle and returns the new value
func ToggleHideTitleMarkup() bool {
	v := !GetHideTitleMarkup()
	SetHideTitleMarkup(v)
	return v
}

// ToggleHideQuotes flips the quote-hiding toggle and returns the new value
func ToggleHideQuotes() bool {
	v := !GetHideQuotes()
	SetHideQuotes(v)
	return v
}

// HideAllMarkup turns both hiding toggles on
func HideAllMarkup() {
	viper.Set("hide_title_markup", true)
	viper.Set("hide_quotes", true)
	C.HideTitleMarkup = true
	C.HideQuotes = true
	notify()
}
