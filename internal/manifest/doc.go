// Package manifest reads binfetch package manifests.
//
// A manifest is a TOML file describing one installable package:
//
//	[package]
//	name = "tool"
//	version = "1.2.0"
//	repository = "https://github.com/example/tool"
//
//	[package.metadata]
//	pkg-url = "{{ .Repository }}/releases/download/v{{ .Version }}/{{ .Name }}-{{ .OS }}-{{ .Arch }}.{{ .Format }}"
//	pkg-fmt = "tgz"
//	bin-dir = "bin"
//
// The pkg-url value is a text/template rendered against a Context for
// the running platform, producing the final download URL.
package manifest
