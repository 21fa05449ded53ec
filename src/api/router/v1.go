package router

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/nftrade-labs/NFTradeBackend/src/api/v1"
	"github.com/nftrade-labs/NFTradeBackend/src/service/approval"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
)

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	api := r.Group("/api/v1")

	session := api.Group("/session")
	{
		session.POST("/connect", v1.SessionConnectHandler(svcCtx))
		session.POST("/disconnect", v1.SessionDisconnectHandler(svcCtx))
		session.GET("", v1.SessionCurrentHandler(svcCtx))
	}

	api.GET("/inventory", v1.InventoryHandler(svcCtx))

	offers := api.Group("/offers")
	{
		offers.GET("", v1.OffersHandler(svcCtx))
		offers.POST("", v1.MakeOfferHandler(svcCtx))
		offers.POST("/refresh", v1.OfferRefreshHandler(svcCtx))
		offers.GET("/:id", v1.OfferDetailHandler(svcCtx))
		offers.POST("/:id/accept", v1.OfferActionHandler(svcCtx, approval.ActionAccept))
		offers.POST("/:id/reject", v1.OfferActionHandler(svcCtx, approval.ActionReject))
		offers.POST("/:id/cancel", v1.OfferActionHandler(svcCtx, approval.ActionCancel))
		offers.POST("/:id/seal", v1.OfferActionHandler(svcCtx, approval.ActionSeal))
	}

	approvals := api.Group("/approvals")
	{
		approvals.GET("/pending", v1.PendingApprovalsHandler(svcCtx))
		approvals.POST("/:id/decision", v1.ApprovalDecisionHandler(svcCtx))
	}

	api.GET("/activities", v1.ActivitiesHandler(svcCtx))
}
