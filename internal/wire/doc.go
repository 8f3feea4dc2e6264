// Package wire implements the byte cursor and the compact-size integer codec
// used by the transaction wire format.
package wire
