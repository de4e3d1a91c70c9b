// meta/meta.go
package meta

// BOARD_SIZE is the default number of rows and columns of the board.
const BOARD_SIZE = 19

// SIMULATIONS is the default number of rollouts per expanded child.
const SIMULATIONS = 100

// GO_ROUTINES defines the default number of goroutines running rollouts.
const GO_ROUTINES = 8

// MAX_BOARD_SIZE bounds the boards accepted over the network.
const MAX_BOARD_SIZE = 25

// SERVER_ADDR is the default listen address of the game server.
const SERVER_ADDR = ":8080"

// MAX_REQUEST_BYTES bounds the request bodies read by the game server.
const MAX_REQUEST_BYTES = 64 << 10
