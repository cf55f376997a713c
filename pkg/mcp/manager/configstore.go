// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package manager

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFile reads a manager Config from path. The file may be YAML,
// JSON, or any other format viper recognizes by extension.
func LoadConfigFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}

// toolFilterMap converts a ToolFilter into the nested map shape viper's
// config-file writer expects.
func toolFilterMap(f ToolFilter) map[string]interface{} {
	m := map[string]interface{}{"all": f.All}
	if len(f.Include) > 0 {
		m["include"] = f.Include
	}
	if len(f.Exclude) > 0 {
		m["exclude"] = f.Exclude
	}
	return m
}

// serverConfigMap converts a ServerConfig into the map shape the config file
// stores a server entry as.
func serverConfigMap(sc ServerConfig) map[string]interface{} {
	return map[string]interface{}{
		"enabled":   sc.Enabled,
		"command":   sc.Command,
		"args":      sc.Args,
		"env":       sc.Env,
		"transport": sc.Transport,
		"timeout":   sc.Timeout,
		"tools":     toolFilterMap(sc.ToolFilter),
	}
}

// readModifyWrite opens path through a scoped viper instance (never the
// global singleton, so concurrent config stores never collide), lets fn
// mutate it, and writes the result back. Grounded on the teacher's
// addMCPServerToConfig/updateMCPServerInConfig/removeMCPServerFromConfig,
// which all follow this same read-then-Set-then-WriteConfig shape.
func readModifyWrite(path string, fn func(v *viper.Viper) error) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := fn(v); err != nil {
		return err
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// AddServerToConfigFile persists a new server entry at servers.<name>.
func AddServerToConfigFile(path, name string, sc ServerConfig) error {
	return readModifyWrite(path, func(v *viper.Viper) error {
		v.Set(fmt.Sprintf("servers.%s", name), serverConfigMap(sc))
		return nil
	})
}

// UpdateServerInConfigFile overwrites an existing server entry.
func UpdateServerInConfigFile(path, name string, sc ServerConfig) error {
	return readModifyWrite(path, func(v *viper.Viper) error {
		v.Set(fmt.Sprintf("servers.%s", name), serverConfigMap(sc))
		return nil
	})
}

// RemoveServerFromConfigFile deletes a server entry from the config file.
func RemoveServerFromConfigFile(path, name string) error {
	return readModifyWrite(path, func(v *viper.Viper) error {
		servers := v.GetStringMap("servers")
		delete(servers, name)
		v.Set("servers", servers)
		return nil
	})
}
