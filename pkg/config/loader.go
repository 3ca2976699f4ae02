package config

import (
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/kkyr/fig"
)

const EnvPrefix = "SREC"

// LoadConfig loads a configuration file into the given struct.
// The path param specifies a custom path to the configuration file.
// Reads and puts environment variables with the prefix SREC_.
// Params from the config should be in uppercase separated with _.
func LoadConfig(config any, path string) error {
	dirs := []string{path}
	if path == "" {
		dirs = append(dirs, ".", "configs", "../../configs")
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, home+"/.srec")
		}
	}
	if err := fig.Load(config, fig.Dirs(dirs...), fig.UseEnv(EnvPrefix)); err != nil {
		return err
	}
	return nil
}

func LoadConfigEnv(config any) error {
	return fig.Load(config, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
}

// UnknownEnv returns the prefixed environment variables that match
// no param of the config, mistyped overrides are silently ignored otherwise.
func UnknownEnv(config any) []string {
	known := map[string]struct{}{}
	envKeys(reflect.TypeOf(config), EnvPrefix, known)

	var unknown []string
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(k, EnvPrefix+"_") {
			continue
		}
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func envKeys(t reflect.Type, prefix string, out map[string]struct{}) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := prefix + "_" + strings.ToUpper(f.Name)
		if ft := f.Type; ft.Kind() == reflect.Struct {
			envKeys(ft, key, out)
			continue
		}
		out[key] = struct{}{}
	}
}
