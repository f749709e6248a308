// Package config loads the optional binfetch CLI configuration file.
//
// The file lives at $XDG_CONFIG_HOME/binfetch/config.yaml and provides
// defaults for flags that would otherwise have to be repeated on every
// invocation:
//
//	install_path: /opt/tools/bin
//	format: tgz
//	assume_yes: false
//	http_timeout: 5m
//	verbose: true
//
// A missing file is not an error; defaults apply.
package config
