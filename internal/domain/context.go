package domain

// HostInfo holds environment data injected into prompts so generated
// commands match the machine they will run on.
type HostInfo struct {
	WorkingDir string
	Shell      string
	OS         string
	User       string
}

// ContextStats summarizes the conversation state; /clear reports the
// dropped word count from it.
type ContextStats struct {
	RollingWords    int
	TranscriptWords int
	Interactions    int
}
