// Package diag defines the diagnostic model shared by every compiler phase.
//
// Compile problems are values, never Go errors. A phase reports through a
// Reporter (usually via ReportError(...).WithNote(...).Emit()) and the
// compiler routes each Diagnostic into the Bag of the file its primary span
// belongs to. Codes are grouped by range:
//
//   - IO  1000: reading files, resolving imports, import cycles, artifact size
//   - LEX 2000: lexical errors
//   - SYN 3000: syntax errors
//   - API 4000: declaration errors in #global / #type blocks and variables
//   - TYP 5000: expression typing errors
//   - RNG 6000: literal range and conversion errors
//   - INT 9000: internal invariant failures
//
// Collision errors are reported twice, once at each declaration, and carry a
// note that points at the other site.
//
// Rendering lives in internal/diagfmt.
package diag
