// Package sexp reads and writes Emacs Lisp style S-expressions and converts
// them to and from plain Go values.
//
// examples:
//
//	(+ 1 2 (- 2 (* 3 4)))
//	((a . 1) (b . "xxx") (c 3 4))
//	(1 (a . b) 2 . 3)
//	'(1.5 .45 -1.732e+5 "abc\ndef" nil)
//
// Alternatives are tried in order and the first that matches is kept, so
// "nil" and "()" are always the nil atom and a parenthesized form with a
// lone " . " is a dotted pair before it is a list.
//
// BNF:
//
//	<sexprs>          :: <ws>* <sexpr> ( <ws>+ <sexpr> )* <ws>* ;
//	<sexpr>           :: <nil> | <number> | <cons> | <symbol> | <string> | <list> | <quoted> ;
//
//	<nil>             :: "nil" | "(" <ws>* ")" ;
//	<cons>            :: "(" <ws>* <sexpr> ( <ws>+ <sexpr> )* <ws>+ "." <ws>+ <sexpr> <ws>* ")" ;
//	<list>            :: "(" <ws>* <sexpr> ( <ws>+ <sexpr> )* <ws>* ")" ;
//	<quoted>          :: "'" <sexpr> ;
//
//	<symbol>          :: !"." <symbol-start> <symbol-part>* ;
//	<symbol-start>    :: <alpha> | "-" | "." | "/" | "_" | ":" | "*" | "+" | "=" ;
//	<symbol-part>     :: <symbol-start> | <decimal-digit> ;
//
//	<string>          :: "\"" ( <string-char> | "\\" <any-char> )* "\"" ;
//	<string-char>     :: <any char except "\"" and "\\"> ;
//
//	<number>          :: <sign>? <integer> "." <decimal-digit>* <exponent>?
//	                   | <sign>? "." <decimal-digit>+ <exponent>?
//	                   | <sign>? <integer> <exponent>? ;
//	<integer>         :: "0" | <non-zero-digit> <decimal-digit>* ;
//	<exponent>        :: ( "e" | "E" ) <sign>? <decimal-digit>+ ;
//	<sign>            :: "+" | "-" ;
//
//	<ws>              :: " " | "\t" | "\v" | "\n" | "\r" | "\f" ;
//
// A number with a "." or an exponent is a float; any other number is an
// integer. Both keep their literal text so printing reproduces the input.
package sexp
