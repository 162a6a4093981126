package version

// Version is replaced at build time with -ldflags "-X ...version.Version=x.y.z".
var Version = "1.0.0"
