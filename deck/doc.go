// Package deck implements the 40 card deck used by the spider cipher: a
// permutation of cards kept together with its inverse so that lookups in
// both directions are constant time, and the two position permuting
// transforms (cut and back-front shuffle) everything else is built from.
//
// Transforms never modify their input; they write into a caller supplied
// output deck which must be distinct storage.
package deck
