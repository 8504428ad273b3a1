package routes

import (
	"log"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
)

// ConfirmHandler backs the success-page poll: when the guest lands back on
// the site with a session_id, the frontend asks the server to make sure the
// booking got recorded even if the webhook delivery is lagging. It shares the
// recorder with the webhook, so retries of either path are idempotent.
type ConfirmHandler struct {
	Payments services.PaymentsClient
	Recorder *services.BookingRecorder
}

func (h *ConfirmHandler) ConfirmCheckout(ctx iris.Context) {
	sessionID := ctx.URLParam("session_id")
	if sessionID == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Missing session_id", ctx)
		return
	}

	sess, err := h.Payments.GetCheckoutSession(sessionID)
	if err != nil {
		log.Printf("session retrieve failed for %s: %v", sessionID, err)
		utils.CreateError(iris.StatusBadGateway, "Error", "Could not retrieve checkout session", ctx)
		return
	}

	outcome, err := h.Recorder.RecordPaidSession(sess)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to record booking", ctx)
		return
	}

	switch outcome {
	case services.OutcomeRecorded:
		ctx.JSON(iris.Map{"inserted": true})
	case services.OutcomeDuplicateIgnored:
		ctx.JSON(iris.Map{"inserted": false, "reason": "already_inserted"})
	case services.OutcomeNotPaid:
		ctx.JSON(iris.Map{"inserted": false, "reason": "not_paid"})
	case services.OutcomeMissingMetadata:
		ctx.JSON(iris.Map{"inserted": false, "reason": "missing_metadata"})
	}
}
