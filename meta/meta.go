// meta/meta.go
package meta

// ROUNDS defines the round budget of a game.
const ROUNDS = 10

// DICE defines the number of dice each agent starts with.
const DICE = 5

// GAMES defines the number of games per match up in a batch.
const GAMES = 100

// OUTPUT_DIR defines where batch results are written.
const OUTPUT_DIR = "experiments"

// ADDR defines the listen address of the HTTP server.
const ADDR = ":8000"

// LOG_LEVEL defines the default zerolog level.
const LOG_LEVEL = "info"

// CHALLENGE_RATE defines how often the random agent challenges.
const CHALLENGE_RATE = 0.3

// CHALLENGE_THRESHOLD defines the failure probability above which the
// reasoning agents challenge a bid.
const CHALLENGE_THRESHOLD = 0.5

// CAUTION_THRESHOLD defines the predicted challenge probability above which
// the first-order agent stops stretching its bid.
const CAUTION_THRESHOLD = 0.5
