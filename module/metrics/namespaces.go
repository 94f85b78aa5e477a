package metrics

// Prometheus metric namespaces
const (
	namespaceExecution = "execution"
	namespaceSync      = "synchronization"
)

// Prometheus metric subsystems
const (
	subsystemBridge      = "bridge"
	subsystemCoordinator = "coordinator"
)
