package switchyard

// Version is the release of this build. Release builds set it with
// -ldflags "-X github.com/aretw0/switchyard.Version=v1.2.3".
var Version = "0.1.0-dev"
