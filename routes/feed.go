package routes

import (
	"log"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
)

// FeedProxyHandler passes the syndicated iCal export through to the frontend
// so the browser never sees the tokenized Booking.com URL.
type FeedProxyHandler struct {
	Feed *services.IcalFeed
}

func (h *FeedProxyHandler) GetFeed(ctx iris.Context) {
	body, err := h.Feed.FetchCached(ctx.Request().Context())
	if err != nil {
		log.Printf("error fetching iCal: %v", err)
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to fetch iCal feed", ctx)
		return
	}

	ctx.ContentType("text/calendar")
	ctx.Header("Cache-Control", "max-age=0, s-maxage=60")
	ctx.Write(body)
}
