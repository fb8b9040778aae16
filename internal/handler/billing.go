package handler

import (
    "context"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
)

// InvoiceRenderer produces the PDF of a billing record.
type InvoiceRenderer interface {
    Render(ctx context.Context, billingID uint64) ([]byte, error)
}

type BillingHandler struct {
    Invoices InvoiceRenderer
}

func NewBillingHandler(inv InvoiceRenderer) *BillingHandler { return &BillingHandler{Invoices: inv} }

// Invoice: GET /v1/billings/:id/invoice.pdf
func (h *BillingHandler) Invoice(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    pdf, err := h.Invoices.Render(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=invoice-%d.pdf", id))
    return c.Blob(http.StatusOK, "application/pdf", pdf)
}
