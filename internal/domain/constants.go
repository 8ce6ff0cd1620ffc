package domain

const (
	DefaultBaseURL = "http://127.0.0.1:8090"

	// ConfigFileName is looked up in the current working directory. Only its
	// "url" key is recognized.
	ConfigFileName = "pocketbase-mcp.json"
	BaseURLEnvVar  = "POCKETBASE_API_URL"

	HooksDirName   = "pb_hooks"
	HookFileSuffix = ".pb.js"

	DefaultPage    = 1
	DefaultPerPage = 30
)
