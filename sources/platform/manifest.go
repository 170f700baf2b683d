package platform

import "time"

type Manifest struct {
	Version   string    `json:"version"`
	BuildTime string    `json:"build_time"`
	StartedAt time.Time `json:"started_at"`
}

var manifest = Manifest{
	Version:   "0.0.0",
	BuildTime: "1970-01-01",
	StartedAt: time.Now(),
}

func SetAppManifest(version, buildTime string, startTime time.Time) {
	manifest = Manifest{Version: version, BuildTime: buildTime, StartedAt: startTime}
}

func GetAppManifest() Manifest {
	return manifest
}
