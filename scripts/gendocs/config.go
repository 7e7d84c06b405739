package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/phylotree/internal/cli/config"
)

// configOption describes one configuration key.
type configOption struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// EnvVar is the environment variable that sets the option.
func (o configOption) EnvVar() string {
	return config.EnvPrefix + strings.ToUpper(o.Key)
}

// Flag is the command-line flag that sets the option, if any.
func (o configOption) Flag() string {
	switch o.Key {
	case "state_path":
		return "--state"
	case "strict":
		return "--strict (build)"
	case "inputs":
		return ""
	}
	return "--" + strings.ReplaceAll(o.Key, "_", "-")
}

var configDescriptions = map[string]string{
	"encoding":       "Character encoding of input documents",
	"state_path":     "SQLite database that stores saved builds",
	"output":         "Output format: " + strings.Join(config.OutputFormats, ", "),
	"verbose":        "Enable debug logging",
	"log_format":     "Log format: text or json",
	"workers":        "Documents built at the same time",
	"watch_debounce": "Quiet period before a watched document is rebuilt",
	"strict":         "Fail when a build raises advisory warnings",
	"inputs":         "Documents built when no arguments are given",
}

// configOptions reads the keys of the Config struct through their koanf tags.
func configOptions(defaults *config.Config) []configOption {
	v := reflect.ValueOf(*defaults)
	t := v.Type()

	var opts []configOption
	for i := range t.NumField() {
		field := t.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}

		def := fmt.Sprint(v.Field(i).Interface())
		if v.Field(i).IsZero() {
			def = ""
		}

		opts = append(opts, configOption{
			Key:         key,
			Type:        field.Type.String(),
			Default:     def,
			Description: configDescriptions[key],
		})
	}
	return opts
}

// generateConfigDocs writes the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration file reference for phylotree")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("phylotree reads `phylotree.yaml` from the current directory or the nearest parent directory. " +
		"Values are layered in this order: defaults, the config file, `" + config.EnvPrefix + "*` environment variables, command-line flags.")

	w.Header(2, "Options")
	headers := []string{"Key", "Type", "Default", "Environment", "Flag", "Description"}
	var rows [][]string
	for _, opt := range configOptions(config.Default()) {
		def := "-"
		if opt.Default != "" {
			def = InlineCode(opt.Default)
		}
		flag := "-"
		if opt.Flag() != "" {
			flag = InlineCode(opt.Flag())
		}
		rows = append(rows, []string{
			InlineCode(opt.Key),
			opt.Type,
			def,
			InlineCode(opt.EnvVar()),
			flag,
			cleanDescription(opt.Description),
		})
	}
	w.Table(headers, rows)

	w.Paragraph("Relative `state_path` and `inputs` entries are resolved against the directory holding the config file.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `encoding: windows-1252
state_path: .phylotree/state.db
output: markdown
workers: 4
watch_debounce: 500ms
strict: true
inputs:
  - build17/mtDNA_tree_Build_17.htm`)

	log.Printf("  Generated configuration.md")
	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
