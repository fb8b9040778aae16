package handler

import (
    "net/mail"
    "strings"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

func required(field, v string) error {
    if strings.TrimSpace(v) == "" {
        return service.Invalidf("%s is required", field)
    }
    return nil
}

func validateGuest(g *model.Guest) error {
    if err := required("first_name", g.FirstName); err != nil {
        return err
    }
    if err := required("last_name", g.LastName); err != nil {
        return err
    }
    if g.Email != "" {
        if _, err := mail.ParseAddress(g.Email); err != nil {
            return service.Invalidf("email is not a valid address")
        }
    }
    return nil
}

func validateRoom(r *model.Room) error {
    if err := required("room_number", r.RoomNumber); err != nil {
        return err
    }
    if r.RoomTypeID == 0 {
        return service.Invalidf("room_type_id is required")
    }
    if r.Status != 0 && !r.Status.Valid() {
        return service.Invalidf("room_status_id %d is not a known status", r.Status)
    }
    return nil
}

func validateRoomType(t *model.RoomType) error {
    if err := required("name", t.Name); err != nil {
        return err
    }
    if t.Capacity == 0 {
        return service.Invalidf("capacity must be at least 1")
    }
    return nil
}

func validateFeature(f *model.Feature) error {
    return required("name", f.Name)
}

func validateCompanion(c *model.Companion) error {
    if c.ReservedRoomID == 0 {
        return service.Invalidf("reserved_room_id is required")
    }
    return required("full_name", c.FullName)
}

func validateAddon(a *model.Addon) error {
    return required("name", a.Name)
}

var addonOrderStatuses = map[string]bool{"PENDING": true, "SERVED": true, "CANCELLED": true}

func validateAddonOrder(o *model.AddonOrder) error {
    if o.ReservationID == 0 || o.AddonID == 0 {
        return service.Invalidf("reservation_id and addon_id are required")
    }
    if o.Quantity == 0 {
        return service.Invalidf("quantity must be at least 1")
    }
    o.Status = strings.ToUpper(strings.TrimSpace(o.Status))
    if o.Status != "" && !addonOrderStatuses[o.Status] {
        return service.Invalidf("status must be PENDING, SERVED or CANCELLED")
    }
    return nil
}

var billingStatuses = map[string]bool{"UNPAID": true, "PARTIAL": true, "PAID": true, "REFUNDED": true}

func validateBilling(b *model.Billing) error {
    if b.ReservationID == 0 {
        return service.Invalidf("reservation_id is required")
    }
    b.Status = strings.ToUpper(strings.TrimSpace(b.Status))
    if b.Status != "" && !billingStatuses[b.Status] {
        return service.Invalidf("status must be UNPAID, PARTIAL, PAID or REFUNDED")
    }
    if b.PaidCents > b.TotalCents && b.Status != "REFUNDED" {
        return service.Invalidf("paid_cents exceeds total_cents")
    }
    return nil
}
