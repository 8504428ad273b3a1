package routes

import (
	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
)

// BookingsHandler lists stored bookings for the operator. The route sits
// behind utils.AdminSecretMiddleware.
type BookingsHandler struct {
	Store services.BookingStore
}

func (h *BookingsHandler) ListBookings(ctx iris.Context) {
	bookings, err := h.Store.ListPaid()
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}
