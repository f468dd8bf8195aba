// Package style resolves chart styles.
//
// A style is a flat mapping of named parameters. Keys such as "font.size" or
// "ytick.color" configure the drawing engine; Newsworthy specific keys
// (title typography, the strong and neutral colors, palettes, logo) live in
// the same mapping under the [CustomPrefix] prefix.
//
// # File formats
//
// Classic rc files hold "key: value" lines. Lines starting with "#!" are
// collected into a YAML document with the custom keys:
//
//	font.size: 10
//	ytick.color: 666666
//	#! strong_color: 5aa69d
//	#! title:
//	#!   fontsize: 15
//
// TOML files hold the same information in two tables:
//
//	[rc]
//	"font.size" = 10
//	[custom]
//	strong_color = "5aa69d"
//
// # Resolution
//
// [Resolver.Resolve] looks up built-in styles first (newsworthy,
// newsworthy_dark), then its search directories, then the working directory.
// An argument that looks like a path is always read from disk. Parsed styles
// are cached for the life of the resolver and never mutated, so a Style can be
// shared by concurrent renders.
package style
