package lobby

import "github.com/hillking/richgetricher/internal/models"

type CreateInput struct {
	Lobby *models.Lobby
}

type GetInput struct {
}

type SaveInput struct {
	Lobby *models.Lobby
}
