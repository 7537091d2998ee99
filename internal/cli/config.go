package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DELTAPARSE"

// applyConfig fills flags that were not given on the command line from,
// in order of precedence, DELTAPARSE_* environment variables (a .env file
// in the working directory is loaded first) and the config file at path.
func applyConfig(cmd *cobra.Command, appFs afero.Fs, path string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetFs(appFs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || f.Name == "help" || f.Name == "version" || !v.IsSet(f.Name) {
			return
		}
		switch f.Value.Type() {
		case "stringArray", "stringSlice":
			for _, s := range v.GetStringSlice(f.Name) {
				if err := f.Value.Set(s); err != nil {
					errs = append(errs, fmt.Errorf("invalid %s value %q: %w", f.Name, s, err))
				}
			}
		default:
			if err := f.Value.Set(v.GetString(f.Name)); err != nil {
				errs = append(errs, fmt.Errorf("invalid %s value %q: %w", f.Name, v.GetString(f.Name), err))
			}
		}
	})
	return errors.Join(errs...)
}
