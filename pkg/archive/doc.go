// Package archive packs a downloaded theme directory into an uncompressed
// tar file and reads such files back.
//
// Pack writes to a temporary file next to the target and renames it on
// success, so a failed run never leaves a truncated archive behind. The
// source directory is only read and stays in place whatever happens.
package archive
