package character

import "github.com/mistwood/cultivation-api/internal/entities"

// CreateCharacterInput defines the input for creating a character
type CreateCharacterInput struct {
	UserID string
	Name   string
}

// CreateCharacterOutput defines the output for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// GetCharacterInput defines the input for getting a character
type GetCharacterInput struct {
	UserID string
}

// GetCharacterOutput defines the output for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
}
