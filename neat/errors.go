package neat

import "errors"

// ErrTournamentTooLarge is returned when a tournament selection's sample
// size exceeds the population size.
var ErrTournamentTooLarge = errors.New("neat: tournament size exceeds population size")
