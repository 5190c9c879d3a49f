// Package lang compiles Sass stylesheets in the SCSS syntax to CSS.
//
// Compilation runs in three phases over a [Session]:
//
//  1. Expansion: the source is split into blocks by [Locate] and each block
//     is dispatched as a declaration, a nested rule or a directive. Nested
//     rules become flat [Rule] values carrying their full ancestry, in
//     order of creation. Variables, mixins and functions live in a
//     [Namespace] of lexical scopes.
//  2. Extension: every @extend adds the selectors of its rule to the rules
//     whose selectors match the target, until nothing changes. Placeholder
//     selectors are then removed.
//  3. Rendering: rules are sorted and written in one of the output
//     [Style] layouts, opening and closing only the headers that differ
//     between consecutive rules.
//
// # Example
//
//	css, err := lang.Compile(ctx, lang.NewSource("", `
//	  $width: 1000px;
//	  .box {
//	    width: $width / 2;
//	    &:hover { color: #010203 + #040506; }
//	  }
//	`), lang.WithStyle(lang.Expanded))
//
// # Directives
//
// Control flow: @if, @else if, @else, @for, @each and @while. Reuse:
// @mixin, @include, @content, @function, @return and @extend. Sources:
// @import, resolved through a [Resolver]. Diagnostics: @warn, @debug and
// @print, written to the logger given by [WithLogger]. Session settings:
// @option. Any other at-rule is emitted as written, with a body when it
// has one; @media and @supports blocks nested in rules are hoisted above
// the selectors and merge with enclosing blocks of the same kind.
//
// # Scoping
//
// Each nested rule and each call gets a scope of its own. An assignment
// writes the nearest scope that already binds the name, so redeclaring a
// global from a rule updates the global; !global always writes the root
// and !default only writes unbound names. Control directives share the
// scope they appear in unless [WithControlScoping] is set.
//
// # Errors
//
// Errors wrap the sentinels of package pkg and carry the file and line of
// the innermost block that failed. [WithLiveErrors] turns a failure into
// CSS that displays the message in the page.
package lang
