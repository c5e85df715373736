// Package config loads the crucible configuration file.
//
// Config files may be JSON or YAML; the loader searches a fixed list of
// filenames in the working directory when no explicit path is given.
// CLI flags always take precedence over file values.
package config
