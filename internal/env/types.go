package env

type VersionInfo struct {
	BuildVersion string
	Commit       string
}

var BuildVersion string
var Commit string
