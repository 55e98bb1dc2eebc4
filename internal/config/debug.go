package config

import "os"

func IsDebug() bool {
	return os.Getenv("CADPILOT_DEBUG") == "1"
}
