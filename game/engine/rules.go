package engine

// IsValidSequence reports whether cards form a movable run: every adjacent pair shares a
// suit and descends by exactly one rank. A single card is always valid.
func IsValidSequence(cards []Card) bool {
	for i := 0; i < len(cards)-1; i++ {
		if cards[i].Suit != cards[i+1].Suit {
			return false
		}
		if cards[i].Value != cards[i+1].Value+1 {
			return false
		}
	}
	return true
}

// CanDropOnto reports whether run may be placed on column. Any run fits an empty column;
// otherwise the column's top card must be exactly one rank above the run's base card.
// Suit is not considered.
func CanDropOnto(column []Card, run []Card) bool {
	if len(run) == 0 {
		return false
	}
	if len(column) == 0 {
		return true
	}
	return column[len(column)-1].Value == run[0].Value+1
}

// allFaceUp reports whether every card in cards is face up
func allFaceUp(cards []Card) bool {
	for _, c := range cards {
		if !c.FaceUp {
			return false
		}
	}
	return true
}

// MovableRunLength returns the length of the longest movable run ending at the top of column
func MovableRunLength(column []Card) int {
	if len(column) == 0 || !column[len(column)-1].FaceUp {
		return 0
	}
	n := 1
	for i := len(column) - 1; i > 0; i-- {
		upper, lower := column[i-1], column[i]
		if !upper.FaceUp || upper.Suit != lower.Suit || upper.Value != lower.Value+1 {
			break
		}
		n++
	}
	return n
}

// completedRunAtTop reports whether the face-up chain walked down from the top of column
// reaches a full Ace-to-King run.
func completedRunAtTop(column []Card) bool {
	if len(column) < RunLength {
		return false
	}
	return MovableRunLength(column) >= RunLength
}

// revealTop flips the top card of column face up
func revealTop(column []Card) {
	if len(column) > 0 {
		column[len(column)-1].FaceUp = true
	}
}
