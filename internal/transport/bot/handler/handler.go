package handler

import (
	"tg_escrow/internal/domain/service/escrow"
)

type Handler struct {
	svc *escrow.Service
}

func New(svc *escrow.Service) *Handler {
	return &Handler{
		svc: svc,
	}
}
