package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing chorus configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values, defaults and environment overrides included.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  catalog.base_url      Catalog API base URL
  catalog.country       Storefront country code
  server.addr           Proxy listen address
  server.cache_ttl      Response cache lifetime in seconds (negative disables)
  studio.api_url        Proxy URL used with --api
  studio.volume         Preview volume (0-100)
  studio.export_dir     Directory saved cards go to
  studio.export_mode    auto, download or view
  studio.share_url      Base of shared track links
  studio.message        Default share message
  tui.theme             auto, dark or light
  log.level             debug, info, warn or error

Examples:
  chorus config set studio.volume 80
  chorus config set catalog.country US`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// intKeys and floatKeys are the settings stored as numbers; the rest are strings.
var (
	intKeys = map[string]bool{
		"catalog.limit":              true,
		"catalog.timeout":            true,
		"server.read_header_timeout": true,
		"server.cache_ttl":           true,
		"server.cache_size":          true,
		"studio.volume":              true,
		"studio.frame_rate":          true,
		"studio.settle_delay":        true,
	}
	floatKeys = map[string]bool{
		"studio.pixel_ratio": true,
	}
)

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return PrintJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return PrintJSON(map[string]interface{}{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if !exists {
		_, _ = mutedColor.Println("(not created yet; run 'chorus config init')")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'chorus config init' first", configPath)
	}

	editor := findEditor(os.Getenv, exec.LookPath)
	if len(editor) == 0 {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor[0], append(editor[1:], configPath)...)
	editorCmd.Stdin, editorCmd.Stdout, editorCmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return editorCmd.Run()
}

// findEditor returns the editor command line: $EDITOR or $VISUAL, which may
// carry arguments, else the first common editor on PATH.
func findEditor(getenv func(string) string, lookPath func(string) (string, error)) []string {
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(getenv(name)); len(fields) > 0 {
			return fields
		}
	}
	for _, e := range []string{"nano", "vim", "vi", "notepad"} {
		if _, err := lookPath(e); err == nil {
			return []string{e}
		}
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writeConfig(f, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return PrintJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	Success("Created config file: %s", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'chorus serve' to start the catalog proxy")
	fmt.Println("  2. Run 'chorus studio' to search and play a preview")
	return nil
}

// writeConfig encodes v as TOML under the standard header.
func writeConfig(w io.Writer, v interface{}) error {
	_, _ = fmt.Fprintln(w, "# Chorus Configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(v)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := config.Path(); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".chorusrc"
	}
	return filepath.Join(home, ".chorusrc")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'chorus config init' first", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var rawConfig map[string]interface{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if rawConfig == nil {
		rawConfig = make(map[string]interface{})
	}

	if err := setConfigValue(rawConfig, key, value); err != nil {
		return err
	}

	if err := checkRawConfig(rawConfig); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writeConfig(f, rawConfig); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	Success("Set %s = %s", key, value)
	return nil
}

// setConfigValue stores value under a "section.field" key, typed to match
// the config schema.
func setConfigValue(raw map[string]interface{}, key, value string) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" || strings.Contains(field, ".") {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., studio.volume)")
	}

	var typed interface{}
	switch {
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typed = int64(i)
	case floatKeys[key]:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("value must be a number for %s", key)
		}
		typed = f
	default:
		typed = value
	}

	sectionMap, ok := raw[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}

// checkRawConfig decodes raw into the typed config so unknown keys and bad
// values never reach disk.
func checkRawConfig(raw map[string]interface{}) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	check := &config.Config{}
	md, err := toml.Decode(buf.String(), check)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %s", undecoded[0])
	}
	check.ApplyDefaults()
	return check.Validate()
}
