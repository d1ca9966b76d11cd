package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DotEnvFile is the environment file read from the config directory
const DotEnvFile = ".env"

// LoadDotEnv copies the variables of dir/.env into the process environment.
// Variables that are already set win over the file. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading %s: %w", DotEnvFile, err)
	}

	for _, key := range v.AllKeys() {
		// viper lower cases keys; environment names are upper case by convention
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}
