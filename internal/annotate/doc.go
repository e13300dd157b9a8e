// Package annotate runs language detection and translation over every row of
// a table. Rows are processed one at a time; a failing row is retried with a
// Policy and a row that exhausts its policy stops the whole batch, leaving the
// annotations of earlier rows in the table.
package annotate
