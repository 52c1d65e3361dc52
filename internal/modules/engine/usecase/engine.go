package usecase

import (
	"context"

	"folio/internal/modules/engine/dto"
	enginein "folio/internal/modules/engine/port/in"
	"folio/internal/modules/engine/service"
	positiondomain "folio/internal/modules/position/domain"
)

type Interactor struct {
	svc *service.EngineService
}

func NewInteractor(svc *service.EngineService) enginein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.EngineInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) EngineFor(ctx context.Context, kind string) (dto.EngineInfo, bool, error) {
	parsed, err := positiondomain.ParseKind(kind)
	if err != nil {
		return dto.EngineInfo{}, false, err
	}
	return i.svc.EngineFor(ctx, parsed)
}

func (i *Interactor) Attach(ctx context.Context, engineName, bookPath string) (enginein.BookHandle, error) {
	session, err := i.svc.Attach(ctx, engineName, bookPath)
	if err != nil {
		return nil, err
	}
	return session, nil
}
