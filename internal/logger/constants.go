package logger

const (
	KeyAppName       = "app"
	KeyTag           = "tag"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyRequestMethod = "requestMethod"
	KeyRequestPath   = "requestPath"
	KeyRequestIP     = "requesterIP"
	KeyRoute         = "route"
	KeyStatus        = "status"
	KeyLatency       = "latency"
	KeyProductID     = "productId"
	KeyConfig        = "config"
)

const AppName = "product-service"
