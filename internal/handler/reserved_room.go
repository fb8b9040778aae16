package handler

import (
    "context"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservedRoomReader lists and loads reserved rooms.
type ReservedRoomReader interface {
    List(ctx context.Context, q repository.ListQuery) ([]model.ReservedRoom, error)
    Get(ctx context.Context, id uint64) (*model.ReservedRoom, error)
}

// ReservedRoomWriter changes reserved rooms together with room status.
type ReservedRoomWriter interface {
    Insert(ctx context.Context, rr *model.ReservedRoom) (uint64, error)
    Update(ctx context.Context, id uint64, rr *model.ReservedRoom) (int64, error)
    Delete(ctx context.Context, id uint64) (int64, error)
}

// ReservedRoomStore joins plain reads with the transactional writes of
// service.ReservedRooms so /v1/reserved-rooms can be served by Resource.
type ReservedRoomStore struct {
    Reads  ReservedRoomReader
    Writes ReservedRoomWriter
}

func (s ReservedRoomStore) List(ctx context.Context, q repository.ListQuery) ([]model.ReservedRoom, error) {
    return s.Reads.List(ctx, q)
}

func (s ReservedRoomStore) Get(ctx context.Context, id uint64) (*model.ReservedRoom, error) {
    return s.Reads.Get(ctx, id)
}

func (s ReservedRoomStore) Create(ctx context.Context, rr *model.ReservedRoom) (uint64, error) {
    return s.Writes.Insert(ctx, rr)
}

func (s ReservedRoomStore) Update(ctx context.Context, id uint64, rr *model.ReservedRoom) (int64, error) {
    return s.Writes.Update(ctx, id, rr)
}

func (s ReservedRoomStore) SoftDelete(ctx context.Context, id uint64) (int64, error) {
    return s.Writes.Delete(ctx, id)
}
