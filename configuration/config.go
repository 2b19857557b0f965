// Package configuration builds sinks from a JSON description, so hosts can
// declare their event-log targets without code changes.
package configuration

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fanlog/fanlog/core"
	"github.com/fanlog/fanlog/formatters"
	"github.com/fanlog/fanlog/sinks"
)

// Configuration is the root configuration object.
type Configuration struct {
	Fanlog DistributionConfiguration `json:"Fanlog"`
}

// DistributionConfiguration lists the sinks to construct.
type DistributionConfiguration struct {
	WriteTo []SinkConfiguration `json:"WriteTo,omitempty"`
}

// SinkConfiguration names a sink kind and its arguments.
type SinkConfiguration struct {
	Name string         `json:"Name"`
	Args map[string]any `json:"Args,omitempty"`
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON loads configuration from JSON data.
func LoadFromJSON(data []byte) (*Configuration, error) {
	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &config, nil
}

// Build constructs every configured sink. Any invalid sink configuration
// fails the whole build; sinks already constructed are closed before the
// error is returned.
func (c *Configuration) Build() ([]*sinks.EventSink, error) {
	built := make([]*sinks.EventSink, 0, len(c.Fanlog.WriteTo))
	for i, sc := range c.Fanlog.WriteTo {
		sink, err := buildSink(sc)
		if err != nil {
			for _, s := range built {
				_ = s.Close()
			}
			return nil, fmt.Errorf("WriteTo[%d] (%s): %w", i, sc.Name, err)
		}
		built = append(built, sink)
	}
	return built, nil
}

func buildSink(sc SinkConfiguration) (*sinks.EventSink, error) {
	target := GetString(sc.Args, "target", "")

	var opts []sinks.Option
	if source := GetString(sc.Args, "source", ""); source != "" {
		opts = append(opts, sinks.WithSource(source))
	}
	if GetBool(sc.Args, "async", false) {
		opts = append(opts, sinks.WithAsync())
	}

	formatter, err := buildFormatter(sc.Args)
	if err != nil {
		return nil, err
	}
	if formatter != nil {
		opts = append(opts, sinks.WithFormatter(formatter))
	}

	switch sc.Name {
	case "EventLog":
		// Default platform writer.
	case "Memory":
		opts = append(opts, sinks.WithWriter(sinks.NewMemoryWriter()))
	default:
		return nil, fmt.Errorf("unknown sink name %q", sc.Name)
	}

	return sinks.NewEventSink(target, opts...)
}

func buildFormatter(args map[string]any) (core.Formatter, error) {
	name := GetString(args, "formatter", "")
	switch name {
	case "", "default":
		return nil, nil
	case "message":
		return formatters.MessageOnly(), nil
	case "uppercase":
		return formatters.Uppercase(formatters.Default()), nil
	case "template":
		layout := GetString(args, "template", "")
		if layout == "" {
			return nil, fmt.Errorf("formatter %q requires a template argument", name)
		}
		return formatters.Template(layout), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
}

// GetString gets a string value from configuration args.
func GetString(args map[string]any, key string, defaultValue string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetBool gets a bool value from configuration args.
func GetBool(args map[string]any, key string, defaultValue bool) bool {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return val == "true" || val == "True"
		}
	}
	return defaultValue
}
