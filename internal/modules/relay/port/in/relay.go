package in

import (
	"context"

	"folio/internal/modules/relay/dto"
)

type Usecase interface {
	Push(ctx context.Context) (dto.PushReport, error)
	Pending(ctx context.Context) ([]dto.Entry, error)
}
