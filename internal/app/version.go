package app

const ServiceName = "lillehelper-api"

// Set via -ldflags at build time:
//
//	go build -ldflags="-X 'github.com/ydaci/lillehelperplatform/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
