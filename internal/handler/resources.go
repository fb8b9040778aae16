package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Mounter registers its own routes on an admin group.
type Mounter interface {
    Mount(g *echo.Group)
}

// AdminStores holds the persistence for the plain CRUD resources.
type AdminStores struct {
    ReservedRooms CRUDStore[model.ReservedRoom, model.ReservedRoom]
    Companions    CRUDStore[model.Companion, model.Companion]
    Rooms         CRUDStore[model.Room, model.RoomListing]
    RoomTypes     CRUDStore[model.RoomType, model.RoomType]
    Features      CRUDStore[model.Feature, model.Feature]
    Guests        CRUDStore[model.Guest, model.Guest]
    Addons        CRUDStore[model.Addon, model.Addon]
    AddonOrders   CRUDStore[model.AddonOrder, model.AddonOrder]
    Billings      CRUDStore[model.Billing, model.Billing]
}

// AdminResources builds one Resource per table.
func AdminResources(s AdminStores) []Mounter {
    return []Mounter{
        NewResource("/reserved-rooms", s.ReservedRooms, nil),
        NewResource("/companions", s.Companions, validateCompanion),
        NewResource("/rooms", s.Rooms, validateRoom),
        NewResource("/room-types", s.RoomTypes, validateRoomType),
        NewResource("/features", s.Features, validateFeature),
        NewResource("/guests", s.Guests, validateGuest),
        NewResource("/addons", s.Addons, validateAddon),
        NewResource("/addon-orders", s.AddonOrders, validateAddonOrder),
        NewResource("/billings", s.Billings, validateBilling),
    }
}
