// Package directives recognizes the @-directives of body text and resolves
// the settings a derived file is written with: the target language and its
// comment delimiters, tab width, page width, encoding and line ending.
package directives
