package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/resultviz/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/resultviz/resultviz.toml
	SourceUser        ConfigSource = "user"        // ~/.resultviz/resultviz.toml
	SourceProject     ConfigSource = "project"     // resultviz.toml found from the working directory
	SourceEnvironment ConfigSource = "environment" // RESULTVIZ_* env vars
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFile string        `json:"config_file" yaml:"config_file" toml:"config_file"`
	Settings   []SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// sensitiveKeys are masked in introspection output
var sensitiveKeys = map[string]bool{
	"neo4j.password": true,
}

// GetConfigIntrospection returns every effective setting with the source
// tracked while loading.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "loading config for introspection")
	}
	v := GetViper()

	loadMu.Lock()
	tracked := make(map[string]SourceInfo, len(ConfigSources))
	for k, si := range ConfigSources {
		tracked[k] = si
	}
	loadMu.Unlock()

	out := &ConfigIntrospection{ConfigFile: v.ConfigFileUsed()}
	for _, key := range v.AllKeys() {
		out.Settings = append(out.Settings, describe(key, v.Get(key), tracked))
	}
	sort.Slice(out.Settings, func(i, j int) bool {
		return out.Settings[i].Key < out.Settings[j].Key
	})
	return out, nil
}

// Lookup returns a single setting with its source.
func Lookup(key string) (SettingInfo, error) {
	intro, err := GetConfigIntrospection()
	if err != nil {
		return SettingInfo{}, err
	}
	key = strings.ToLower(key)
	for _, s := range intro.Settings {
		if s.Key == key {
			return s, nil
		}
	}
	return SettingInfo{}, errors.Wrapf(errors.ErrNotFound, "unknown setting %q", key)
}

// describe resolves the origin of one dotted key. An exported env var
// outranks whatever file set the key.
func describe(key string, value interface{}, tracked map[string]SourceInfo) SettingInfo {
	origin, ok := tracked[key]
	if !ok {
		origin = SourceInfo{Source: SourceDefault, Path: "built-in default"}
	}
	envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		origin = SourceInfo{Source: SourceEnvironment, Path: envKey}
	}
	if s, isString := value.(string); isString && s != "" && sensitiveKeys[key] {
		value = "********"
	}
	return SettingInfo{
		Key:        key,
		Value:      value,
		Source:     origin.Source,
		SourcePath: origin.Path,
	}
}

// GetConfigSummary counts the effective settings by source
func GetConfigSummary() map[string]interface{} {
	counts := map[string]int{}
	intro, err := GetConfigIntrospection()
	if err == nil {
		for _, s := range intro.Settings {
			counts[string(s.Source)]++
		}
	}
	return map[string]interface{}{
		"config_file": GetViper().ConfigFileUsed(),
		"sources":     counts,
	}
}
