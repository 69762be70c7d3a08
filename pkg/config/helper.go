package config

import "strings"

// Key returns the config key a flag is bound to under prefix, e.g.
// "print-file-name" under "scan" becomes "scan.print_file_name".
func Key(prefix, flagName string) string {
	name := strings.ReplaceAll(flagName, "-", "_")
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// ConfigFileUsed returns the path of the loaded config file, or an empty
// string when only defaults, environment and flags are in effect.
func ConfigFileUsed() string {
	return GetViper().ConfigFileUsed()
}
