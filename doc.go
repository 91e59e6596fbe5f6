// Package calculatics implements a tiny line-oriented scripting language whose
// only values are numbers.
//
// A program is a list of statements, one per line:
//
//	x -> 2 + 3 * 4   # assign 14 to x
//	log x / 4        # print 3.5
//	ret 2 ^ 3 ^ 2    # print 512 and stop
//
// Expressions are parsed into flat operation trees, where bracketed groups are
// nested trees but operators are not yet grouped by precedence. Restructure
// nests the runs that bind tighter than addition: "2 + 3 * 4 ^ 2" becomes
// "2 + (3 * [4 ^ 2])". "a^b^c" is the same as "a^(b^c)". Eval then folds a
// restructured tree from left to right against a Scope of variables.
//
// There is no global state. Each Scope is independent, and Clone makes copies
// so that several programs or evaluations can start from the same variables.
package calculatics
