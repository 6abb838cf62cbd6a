package server

// podridaMaxCards is how many cards each player holds in the biggest
// round: the 48-card deck dealt evenly.
func podridaMaxCards(playerCount int) int {
	if playerCount <= 0 {
		return 0
	}
	return podridaDeckSize / playerCount
}

// podridaCardsSequence is the match-long cards-per-round sequence:
// ascending from min(3, max) to max, then descending from max-1 to 1.
// For max=6 that is 3,4,5,6,5,4,3,2,1.
func podridaCardsSequence(playerCount int) []int {
	maxCards := podridaMaxCards(playerCount)
	if maxCards <= 0 {
		return []int{}
	}
	start := podridaStartingHand
	if maxCards < start {
		start = maxCards
	}
	sequence := make([]int, 0, (maxCards-start+1)+(maxCards-1))
	for cards := start; cards <= maxCards; cards++ {
		sequence = append(sequence, cards)
	}
	for cards := maxCards - 1; cards >= 1; cards-- {
		sequence = append(sequence, cards)
	}
	return sequence
}

// podridaRounds returns the podrida rounds played so far, in append order.
func podridaRounds(game *Game) []Round {
	rounds := make([]Round, 0, len(game.Rounds))
	for _, round := range game.Rounds {
		if round.Type == GameTypePodrida {
			rounds = append(rounds, round)
		}
	}
	return rounds
}

// nextPodridaCards returns the card count for the next round, or false
// once the sequence is exhausted.
func nextPodridaCards(game *Game) (int, bool) {
	sequence := podridaCardsSequence(len(game.Players))
	played := len(podridaRounds(game))
	if played >= len(sequence) {
		return 0, false
	}
	return sequence[played], true
}
