package input

import (
	"strings"

	"github.com/eiannone/keyboard"
	"github.com/trytobebee/snake_classic/pkg/game"
)

// KeyboardHandler handles keyboard input
type KeyboardHandler struct {
	inputChan chan KeyInput
	done      chan struct{}
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
		done:      make(chan struct{}),
	}
}

// Start begins listening for keyboard input
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case h.inputChan <- KeyInput{Char: char, Key: key}:
			case <-h.done:
				return
			}
		}
	}()

	return nil
}

// Stop stops the keyboard handler
func (h *KeyboardHandler) Stop() {
	close(h.done)
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// ParseDirection parses a key input into a direction
func ParseDirection(input KeyInput) (dir game.Direction, isValid bool) {
	// Handle arrow keys
	switch input.Key {
	case keyboard.KeyArrowUp:
		return game.Up, true
	case keyboard.KeyArrowDown:
		return game.Down, true
	case keyboard.KeyArrowLeft:
		return game.Left, true
	case keyboard.KeyArrowRight:
		return game.Right, true
	}

	// Handle WASD keys
	switch input.Char {
	case 'w', 'W':
		return game.Up, true
	case 's', 'S':
		return game.Down, true
	case 'a', 'A':
		return game.Left, true
	case 'd', 'D':
		return game.Right, true
	}

	return 0, false
}

// IsQuit checks if the input is a quit command
func IsQuit(input KeyInput) bool {
	return input.Char == 'q' || input.Char == 'Q' || input.Key == keyboard.KeyEsc || input.Key == keyboard.KeyCtrlC
}

// IsRestart checks if the input is a restart command
func IsRestart(input KeyInput) bool {
	return input.Char == 'r' || input.Char == 'R'
}

// IsPause checks if the input is a pause command
func IsPause(input KeyInput) bool {
	return input.Char == 'p' || input.Char == 'P' || input.Key == keyboard.KeySpace
}

// IsConfirm checks if the input starts a game from the menu or game over screen
func IsConfirm(input KeyInput) bool {
	return input.Key == keyboard.KeyEnter
}

// IsMenu checks if the input returns to the menu
func IsMenu(input KeyInput) bool {
	return input.Char == 'm' || input.Char == 'M'
}

// ToCommand maps a key to the command it means in the given phase.
// Pause and confirm keys are context dependent: the same key pauses and
// resumes, and Enter both starts and replays.
func ToCommand(input KeyInput, phase game.Phase) (game.Command, bool) {
	if IsQuit(input) {
		return game.Quit, true
	}
	if dir, ok := ParseDirection(input); ok {
		return game.Turn(dir), true
	}
	if IsRestart(input) {
		if phase == game.PhaseGameOver {
			return game.PlayAgain, true
		}
		return game.Restart, true
	}
	if IsPause(input) {
		switch phase {
		case game.PhasePaused:
			return game.Resume, true
		case game.PhasePlaying:
			return game.Pause, true
		case game.PhaseMenu:
			return game.Start, true
		case game.PhaseGameOver:
			return game.PlayAgain, true
		}
	}
	if IsConfirm(input) {
		switch phase {
		case game.PhaseMenu:
			return game.Start, true
		case game.PhaseGameOver:
			return game.PlayAgain, true
		case game.PhasePaused:
			return game.Resume, true
		}
	}
	if IsMenu(input) {
		return game.ToMenu, true
	}
	return game.Command{}, false
}

// ParseAction maps a text action (as sent by the web client) to a command
func ParseAction(action string) (game.Command, bool) {
	action = strings.ToLower(strings.TrimSpace(action))
	if dir, ok := game.ParseDirection(action); ok {
		return game.Turn(dir), true
	}
	switch action {
	case "pause":
		return game.Pause, true
	case "resume":
		return game.Resume, true
	case "restart":
		return game.Restart, true
	case "start":
		return game.Start, true
	case "play_again", "again":
		return game.PlayAgain, true
	case "menu":
		return game.ToMenu, true
	case "quit":
		return game.Quit, true
	}
	return game.Command{}, false
}
