// Package cli implements the cardiq command tree.
//
// Every command except version opens the device database, restores the
// login stored there and calls the services. Errors are reported on stderr
// with a message chosen by the sentinel they wrap; see describe.
package cli
