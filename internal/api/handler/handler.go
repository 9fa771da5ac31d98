package handler

import (
	"chatterbox/backend/internal/chathub"
	"chatterbox/backend/internal/config"
	"chatterbox/backend/internal/storage"
)

// Handler містить посилання на хаб, сховище та конфігурацію.
type Handler struct {
	Hub     *chathub.ManagerService
	Storage storage.Storage
	Cfg     *config.Config
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, cfg *config.Config) *Handler {
	return &Handler{Hub: hub, Storage: s, Cfg: cfg}
}
