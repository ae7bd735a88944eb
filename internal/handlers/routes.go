package handlers

import "github.com/gin-gonic/gin"

// API groups the resource handlers mounted under /api/v1.
type API struct {
	Buildings  *BuildingHandler
	Apartments *ApartmentHandler
	Leases     *LeaseHandler
	Tenants    *TenantHandler
	Parking    *ParkingHandler
}

// RegisterRoutes mounts the resource routes on an authenticated group.
func RegisterRoutes(v1 *gin.RouterGroup, api API) {
	buildings := v1.Group("/buildings")
	{
		buildings.POST("", api.Buildings.Create)
		buildings.GET("/:number", api.Buildings.Get)
	}

	apartments := v1.Group("/apartments")
	{
		apartments.POST("", api.Apartments.Create)
		apartments.GET("/:number", api.Apartments.Get)
	}

	leases := v1.Group("/leases")
	{
		leases.POST("", api.Leases.Book)
		leases.GET("/:number", api.Leases.Get)
		leases.POST("/:number/status", api.Leases.Transition)
		leases.POST("/:number/break", api.Leases.Break)
	}

	tenants := v1.Group("/tenants")
	{
		tenants.GET("/:id", api.Tenants.Get)
		tenants.PATCH("/:id", api.Tenants.Update)
	}

	parking := v1.Group("/parking")
	{
		parking.POST("", api.Parking.Create)
		parking.GET("/:number", api.Parking.Get)
		parking.PATCH("/:number", api.Parking.Update)
	}
}
