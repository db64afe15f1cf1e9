// Package lang implements the webuild text-composition language.
//
// A project is assembled from four kinds of source file, each fixed by a
// declaration on its first line (or second, after a "#" shebang):
//
//	::BLUEPRINT;   orchestrates a build, writes outputs, produces no text
//	::TEMPLATE;    concatenates literal text with nested references
//	::FRAGMENT;    emitted verbatim
//	::PARAMETRIC;  substitutes <[NAME]> tokens
//
// # Lines
//
// A line whose first non-blank character is an unescaped ':' is a command.
// Its body runs to the first unescaped ';' and is split into fields on
// unescaped ':'. Anything after the ';' is a comment. The escape character
// '\' negates the meaning of the character following it everywhere except
// in Fragment bodies, where nothing is special.
//
//	:;                                 comment, legal everywhere
//	:TEMPLATE:header;                  splice header (or header.template, header.temp)
//	:FRAGMENT:logo.svg:out/logo.svg;   blueprint only: write to out/logo.svg
//	:PARAMETRIC:card::TITLE=Hello;     default output name, one binding
//	::PARAM:TITLE:True:Untitled;       parametric only: declare TITLE
//
// # Parameters
//
// A declaration "::PARAM:NAME[:REQUIRED[:DEFAULT]];" gives the treatment of
// NAME when an invocation leaves it unbound (see [Declaration.Policy]).
// Within Parametric text, "<[NAME]>" is replaced by the bound value.
// Escaping either character of the opening delimiter keeps the delimiters
// literal while tokens nested inside are still substituted:
//
//	text \<[<[A]>]>   =>   text <[VALUE]>   (A bound to VALUE)
//
// # Rendering
//
// [Renderer.Render] walks the reference graph recursively. Each reference is
// resolved relative to the referencing file's directory by probing the
// extensions of its type (see [Resolve]). A reference back to a file that is
// still being rendered fails with [ErrCyclicReference]. Blueprint outputs are
// staged and committed by an [Emitter], so a failed render never leaves a
// partially written file behind.
package lang
