package deck

// BackFront is the back-front shuffle applied to the identity deck:
// out.cards[i] = in.cards[BackFront[i]].
var BackFront = [Cards]Card{
	39, 37, 35, 33, 31, 29, 27, 25, 23, 21,
	19, 17, 15, 13, 11, 9, 7, 5, 3, 1,
	0, 2, 4, 6, 8, 10, 12, 14, 16, 18,
	20, 22, 24, 26, 28, 30, 32, 34, 36, 38,
}

// Cut rotates in so that card is on top (position 0), keeping the
// relative order of the other cards, and writes the result to out.
func Cut(in *Deck, card Card, out *Deck) {
	mustNotAlias(in, out)
	cutAt := int(in.ats[card])
	uncutAt := (Cards - cutAt) % Cards
	for i := 0; i < Cards; i++ {
		out.cards[i] = in.cards[(i+cutAt)%Cards]
		out.ats[i] = uint8((int(in.ats[i]) + uncutAt) % Cards)
	}
}

// CutAt cuts in at whichever card occupies position at (mod Cards).
func CutAt(in *Deck, at int, out *Deck) {
	at %= Cards
	if at < 0 {
		at += Cards
	}
	Cut(in, in.cards[at], out)
}

// BackFrontShuffle deals the even positions of in, in order, onto the back
// half of out and the odd positions, reversed, onto the front half:
//
//	out[20+i] = in[2i]
//	out[19-i] = in[2i+1]
//
// The permutation does not depend on card values.
func BackFrontShuffle(in, out *Deck) {
	mustNotAlias(in, out)
	const half = Cards / 2
	for i := 0; i < half; i++ {
		out.cards[half+i] = in.cards[2*i]
		out.cards[half-1-i] = in.cards[2*i+1]
	}
	out.rebuild()
}

// BackFrontUnshuffle undoes BackFrontShuffle.
func BackFrontUnshuffle(in, out *Deck) {
	mustNotAlias(in, out)
	const half = Cards / 2
	for i := 0; i < half; i++ {
		out.cards[2*i] = in.cards[half+i]
		out.cards[2*i+1] = in.cards[half-1-i]
	}
	out.rebuild()
}

// Permute writes out.cards[i] = in.cards[by.cards[i]]; by is read as a
// permutation of positions.
func Permute(in, by, out *Deck) {
	mustNotAlias(in, out)
	mustNotAlias(by, out)
	for i := 0; i < Cards; i++ {
		out.cards[i] = in.cards[by.cards[i]]
	}
	out.rebuild()
}
