package taskname

const (
	// Shipment webhook tasks
	ShipmentProcess = "shipment:process"
)
