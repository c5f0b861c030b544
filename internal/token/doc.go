// Package token defines MaPL token kinds, keywords and trivia.
package token
