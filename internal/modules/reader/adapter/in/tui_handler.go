package in

import (
	"context"

	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
)

type TUIHandler struct {
	usecase readerin.Usecase
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, bookID, deviceID string) (readerin.OpenedBook, error) {
	return h.usecase.Open(ctx, dto.OpenInput{BookID: bookID, DeviceID: deviceID})
}
