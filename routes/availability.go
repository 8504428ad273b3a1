package routes

import (
	"log"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
)

// AvailabilityHandler serves the booked-date calendar. Intervals are
// recomputed from the store and the syndicated feed on every request; there
// is no shared in-memory state between requests.
type AvailabilityHandler struct {
	Store services.BookingStore
	Feed  services.FeedSource
}

type bookedRange struct {
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Origin services.Origin `json:"origin"`
}

// GetBookedRanges returns the merged booked intervals for the frontend
// calendar. With startDate/endDate query params it instead answers whether
// that candidate range is free. A feed outage degrades to local-store
// availability alone; a store outage degrades to feed alone. Either is
// flagged as partial.
func (h *AvailabilityHandler) GetBookedRanges(ctx iris.Context) {
	partial := false

	var local []services.BookedInterval
	rows, err := h.Store.ListPaid()
	if err != nil {
		log.Printf("bookings read failed, rendering feed-only availability: %v", err)
		partial = true
	} else {
		local = services.StoredBookingIntervals(rows)
	}

	feed, err := h.Feed.BookedIntervals(ctx.Request().Context())
	if err != nil {
		log.Printf("feed read failed, rendering store-only availability: %v", err)
		partial = true
	}

	merged := services.MergeIntervals(local, feed)

	startStr := ctx.URLParam("startDate")
	endStr := ctx.URLParam("endDate")
	if startStr != "" || endStr != "" {
		start, err := services.ParseLocalDate(startStr)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid startDate", ctx)
			return
		}
		end, err := services.ParseLocalDate(endStr)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid endDate", ctx)
			return
		}
		if !start.Before(end) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be before endDate", ctx)
			return
		}

		ctx.JSON(iris.Map{
			"available": services.IsRangeAvailable(start, end, merged),
			"partial":   partial,
		})
		return
	}

	ranges := make([]bookedRange, 0, len(merged))
	for _, iv := range merged {
		ranges = append(ranges, bookedRange{
			Start:  iv.Start.Format("2006-01-02"),
			End:    iv.End.Format("2006-01-02"),
			Origin: iv.Origin,
		})
	}

	ctx.JSON(iris.Map{
		"bookedDates": ranges,
		"partial":     partial,
	})
}
