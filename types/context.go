package types

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext carries build-time information from main into the commands
type AppContext struct {
	Version string
}
