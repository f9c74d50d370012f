// Package stepcalc implements a calculator that shows its work.
//
// An expression is tokenized, parsed into a tree, and then reduced one
// operation at a time, innermost-left-first. Before each reduction the
// evaluator records the expression as it stands, so "(2 + 3) * 4" yields the
// steps "(2 + 3) * 4", "5 * 4" and "20".
//
// Trigonometric functions take degrees, and inverse trigonometric functions
// give degrees. Results of named functions and the constants pi and e are
// rounded to two decimal places by default; arithmetic is left alone. "-2^2"
// is "(-2)^2", because negation applies to the operand directly after it, and
// "2^3^2" is "2^(3^2)".
package stepcalc
